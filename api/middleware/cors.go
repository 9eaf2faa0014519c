package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/nurlan2209/undeme/pkg/config"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"http://localhost:8081", // Expo dev client
}

// CORS returns middleware that applies the API's allowed origin policy.
// Origins come from configuration, falling back to the dev defaults.
func CORS(cfg config.AppConfig) func(http.Handler) http.Handler {
	origins := cfg.Origins()
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
