package controllers

import (
	"net/http"
	"time"

	"github.com/urbanswap/urbanswap-backend/api/responses"
	"github.com/urbanswap/urbanswap-backend/pkg/config"
)

// Health reports service liveness along with the running environment.
func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.App.Env,
		})
	}
}
