package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Sos           SosConfig
	WhatsApp      WhatsAppConfig
	AI            AIConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if cfg.Sos.CooldownSeconds < 5 {
		return nil, fmt.Errorf("sos cooldown must be at least 5 seconds, got %d", cfg.Sos.CooldownSeconds)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"UNDEME_APP_ENV" required:"true"`
	Port         string `envconfig:"UNDEME_APP_PORT" default:"5002"`
	LogLevel     string `envconfig:"UNDEME_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"UNDEME_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"UNDEME_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Origins splits the comma-separated CORS origin list, dropping empty entries.
func (a AppConfig) Origins() []string {
	parts := strings.Split(a.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DBConfig struct {
	DSN string `envconfig:"UNDEME_DB_DSN"`

	LegacyHost     string `envconfig:"UNDEME_DB_HOST"`
	LegacyPort     int    `envconfig:"UNDEME_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"UNDEME_DB_USER"`
	LegacyPassword string `envconfig:"UNDEME_DB_PASSWORD"`
	LegacyName     string `envconfig:"UNDEME_DB_NAME"`
	LegacySSLMode  string `envconfig:"UNDEME_DB_SSLMODE" default:"disable"`

	AutoMigrate bool `envconfig:"UNDEME_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"UNDEME_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"UNDEME_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"UNDEME_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"UNDEME_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"UNDEME_REDIS_URL" required:"true"`
	Address      string        `envconfig:"UNDEME_REDIS_ADDR"`
	Password     string        `envconfig:"UNDEME_REDIS_PASSWORD"`
	DB           int           `envconfig:"UNDEME_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"UNDEME_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"UNDEME_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"UNDEME_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"UNDEME_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"UNDEME_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"UNDEME_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"UNDEME_JWT_ISSUER" default:"undeme"`
	ExpirationMinutes int    `envconfig:"UNDEME_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"UNDEME_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"UNDEME_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"UNDEME_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"UNDEME_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"UNDEME_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"UNDEME_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"15m"`
	LoginEmailLimit    int           `envconfig:"UNDEME_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"UNDEME_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"UNDEME_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"15m"`
	RegisterEmailLimit int           `envconfig:"UNDEME_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"5"`
	RegisterIPLimit    int           `envconfig:"UNDEME_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	SosWindow          time.Duration `envconfig:"UNDEME_SOS_RATE_LIMIT_WINDOW" default:"5m"`
	SosIPLimit         int           `envconfig:"UNDEME_SOS_RATE_LIMIT_IP_LIMIT" default:"20"`
}

type SosConfig struct {
	WebhookURL      string        `envconfig:"UNDEME_SOS_WEBHOOK_URL"`
	CooldownSeconds int           `envconfig:"UNDEME_SOS_COOLDOWN_SECONDS" default:"30"`
	SendTimeout     time.Duration `envconfig:"UNDEME_SOS_SEND_TIMEOUT" default:"12s"`
	HistoryLimit    int           `envconfig:"UNDEME_SOS_HISTORY_LIMIT" default:"20"`
}

// Cooldown returns the configured cooldown window as a duration.
func (s SosConfig) Cooldown() time.Duration {
	return time.Duration(s.CooldownSeconds) * time.Second
}

type WhatsAppConfig struct {
	Token            string `envconfig:"UNDEME_WHATSAPP_BUSINESS_TOKEN"`
	PhoneNumberID    string `envconfig:"UNDEME_WHATSAPP_PHONE_NUMBER_ID"`
	APIVersion       string `envconfig:"UNDEME_WHATSAPP_API_VERSION" default:"v22.0"`
	TemplateName     string `envconfig:"UNDEME_WHATSAPP_TEMPLATE_NAME"`
	TemplateLanguage string `envconfig:"UNDEME_WHATSAPP_TEMPLATE_LANGUAGE" default:"en_US"`
}

// Configured reports whether the messaging API has usable credentials.
func (w WhatsAppConfig) Configured() bool {
	return w.Token != "" && w.PhoneNumberID != ""
}

type AIConfig struct {
	APIKey        string        `envconfig:"UNDEME_AI_API_KEY"`
	Model         string        `envconfig:"UNDEME_AI_MODEL" default:"gpt-4o-mini"`
	FallbackModel string        `envconfig:"UNDEME_AI_FALLBACK_MODEL" default:"gpt-4o"`
	BaseURL       string        `envconfig:"UNDEME_AI_BASE_URL"`
	Timeout       time.Duration `envconfig:"UNDEME_AI_TIMEOUT" default:"12s"`
	HistoryLimit  int           `envconfig:"UNDEME_AI_HISTORY_LIMIT" default:"50"`
}

// ModelCandidates returns the ordered, de-duplicated model list to try.
func (a AIConfig) ModelCandidates() []string {
	seen := map[string]bool{}
	candidates := make([]string, 0, 2)
	for _, model := range []string{a.Model, a.FallbackModel} {
		trimmed := strings.TrimSpace(model)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		candidates = append(candidates, trimmed)
	}
	return candidates
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
