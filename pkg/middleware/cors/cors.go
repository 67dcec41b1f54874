package cors

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	defaultMethods        = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	defaultAllowedHeaders = []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"}
	// Export responses are downloads; browsers hide Content-Disposition unless exposed.
	defaultExposedHeaders = []string{"X-Request-ID", "X-Cache", "Content-Disposition"}
)

// Config controls the CORS headers. Empty fields fall back to the planner API defaults; an empty
// origin list allows every origin.
type Config struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         time.Duration
}

// New returns a CORS middleware for cfg. Preflight requests are answered with 204.
func New(cfg Config) gin.HandlerFunc {
	allowAll := len(cfg.AllowedOrigins) == 0
	originSet := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		originSet[strings.TrimRight(origin, "/")] = struct{}{}
	}

	methods := strings.Join(orDefault(cfg.AllowedMethods, defaultMethods), ", ")
	allowed := strings.Join(orDefault(cfg.AllowedHeaders, defaultAllowedHeaders), ", ")
	exposed := strings.Join(orDefault(cfg.ExposedHeaders, defaultExposedHeaders), ", ")
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 10 * time.Minute
	}
	maxAgeSeconds := strconv.Itoa(int(maxAge.Seconds()))

	return func(c *gin.Context) {
		h := c.Writer.Header()
		origin := c.GetHeader("Origin")
		if origin != "" {
			if allowAll || hasOrigin(originSet, origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		} else if allowAll {
			h.Set("Access-Control-Allow-Origin", "*")
		}

		h.Set("Vary", "Origin")
		h.Set("Access-Control-Allow-Headers", allowed)
		h.Set("Access-Control-Expose-Headers", exposed)
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Max-Age", maxAgeSeconds)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func hasOrigin(originSet map[string]struct{}, origin string) bool {
	_, ok := originSet[strings.TrimRight(origin, "/")]
	return ok
}
