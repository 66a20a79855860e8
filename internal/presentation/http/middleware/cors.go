package middleware

import (
	"slices"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Local dev servers of the dashboard and the till app.
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
}

var defaultMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

// Headers a POS terminal sends on every write.
var terminalHeaders = []string{RequestIDHeader, ClientIDHeader, IdempotencyKeyHeader}

// CORSMiddleware builds the CORS policy from cfg. Empty lists fall back to
// the defaults; the terminal headers are always allowed.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsPolicy(cfg))
}

func corsPolicy(cfg *config.CORSConfig) cors.Config {
	origins := orDefault(cfg.AllowedOrigins, defaultOrigins)
	methods := orDefault(cfg.AllowedMethods, defaultMethods)
	headers := orDefault(cfg.AllowedHeaders, []string{"Accept", "Content-Type", "Origin"})
	for _, h := range terminalHeaders {
		if !slices.Contains(headers, h) {
			headers = append(headers, h)
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     headers,
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader, ReplayedHeader, "Retry-After"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           12 * time.Hour,
	}
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return slices.Clone(fallback)
	}
	return slices.Clone(values)
}
