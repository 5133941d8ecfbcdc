package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"

	"github.com/davidbz/pricesync/internal/config"
)

//nolint:gochecknoglobals // Read-only
var serviceMethods = []string{http.MethodGet, http.MethodPost}

// CORS lets browser dashboards call /status and /trigger.
// Callers may send their own X-Request-Id and can read back the request and
// trace ids set by Trace. Without configured methods only GET and POST are
// allowed.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = serviceMethods
	}

	headers := slices.Clone(cfg.AllowedHeaders)
	if !slices.Contains(headers, requestIDHeader) {
		headers = append(headers, requestIDHeader)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		ExposedHeaders:   []string{requestIDHeader, traceIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return c.Handler
}
