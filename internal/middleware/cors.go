package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS builds the cross-origin middleware from the configured allow-list
// (§6 BACKEND_CORS_ORIGINS).
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler
}
