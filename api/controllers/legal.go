package controllers

import (
	"net/http"

	"github.com/nurlan2209/undeme/api/responses"
	"github.com/nurlan2209/undeme/api/validators"
	"github.com/nurlan2209/undeme/internal/legal"
	"github.com/nurlan2209/undeme/pkg/logger"
)

// LegalTopics serves the legal-reference catalog with optional category and
// free-text filters.
func LegalTopics(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := validators.QueryString(r, "category", 120)
		if category == "" {
			category = legal.AllCategories
		}
		query := validators.QueryString(r, "query", 200)

		topics := legal.Topics(category, query)
		responses.WriteSuccess(w, map[string]any{
			"categories": legal.Categories(),
			"total":      len(topics),
			"items":      topics,
		})
	}
}

// EmergencyServices serves the national emergency number directory.
func EmergencyServices(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"items": legal.Services(),
			"note":  legal.EmergencyNote,
		})
	}
}
