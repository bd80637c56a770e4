package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3001", // local client dev
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS(clientURL string) func(http.Handler) http.Handler {
	origins := defaultCORSOrigins
	if clientURL != "" {
		origins = append([]string{clientURL}, origins...)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
