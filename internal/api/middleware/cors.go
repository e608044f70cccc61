package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows browser clients from the given origins with credentials.
// "*" allows any origin; the request origin is echoed back since browsers
// reject a literal wildcard on credentialed responses.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}
	for _, o := range allowedOrigins {
		if o == "*" {
			opts.AllowedOrigins = nil
			opts.AllowOriginFunc = func(string) bool { return true }
			break
		}
	}

	return cors.New(opts).Handler
}
