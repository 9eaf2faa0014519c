package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nurlan2209/undeme/api/controllers"
	"github.com/nurlan2209/undeme/api/middleware"
	"github.com/nurlan2209/undeme/internal/ai"
	"github.com/nurlan2209/undeme/internal/auth"
	"github.com/nurlan2209/undeme/internal/sos"
	"github.com/nurlan2209/undeme/internal/users"
	"github.com/nurlan2209/undeme/pkg/config"
	"github.com/nurlan2209/undeme/pkg/logger"
	"github.com/nurlan2209/undeme/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	authService auth.Service,
	userService users.Service,
	sosService sos.Service,
	aiService ai.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	sosPolicy := middleware.NewRateLimitPolicy(
		"sos",
		cfg.AuthRateLimit.SosWindow,
		cfg.AuthRateLimit.SosIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.RateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1/legal", func(r chi.Router) {
		r.Get("/topics", controllers.LegalTopics(logg))
	})
	r.Get("/api/v1/services", controllers.EmergencyServices(logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.Profile(userService, logg))
			r.Patch("/", controllers.ProfileUpdate(userService, logg))
			r.Delete("/", controllers.ProfileDelete(userService, logg))
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", controllers.ContactsList(userService, logg))
				r.Post("/", controllers.ContactCreate(userService, logg))
				r.Put("/{contactId}", controllers.ContactUpdate(userService, logg))
				r.Delete("/{contactId}", controllers.ContactDelete(userService, logg))
			})
		})

		r.Route("/sos", func(r chi.Router) {
			r.With(middleware.RateLimit(sosPolicy, redisClient, logg)).Post("/trigger", controllers.SosTrigger(sosService, logg))
			r.Post("/{eventId}/retry", controllers.SosRetry(sosService, logg))
			r.Get("/history", controllers.SosHistory(sosService, logg))
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/chat", controllers.AiChat(aiService, logg))
			r.Get("/history", controllers.AiHistory(aiService, logg))
		})
	})

	return r
}
