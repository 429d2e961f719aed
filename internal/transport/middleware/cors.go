package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/wenyan-gloss/internal/config"
)

// CORS returns middleware for browser clients of the public API.
//
// A wildcard origin list without credentials answers "*"; otherwise the
// matching origin is echoed with Vary: Origin. The request ID header is
// exposed so the frontend can report it. Only OPTIONS requests carrying
// Access-Control-Request-Method are answered as preflight.
func CORS(cfg config.CORSConfig) Middleware {
	origins, wildcard := parseOrigins(cfg.AllowedOrigins)
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			origin := r.Header.Get("Origin")

			if origin != "" && (wildcard || origins[origin]) {
				if wildcard && !cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				h.Set("Access-Control-Expose-Headers", RequestIDHeader)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
				h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func parseOrigins(list string) (map[string]bool, bool) {
	origins := make(map[string]bool)
	wildcard := false
	for _, o := range strings.Split(list, ",") {
		o = strings.TrimSpace(o)
		switch o {
		case "":
		case "*":
			wildcard = true
		default:
			origins[o] = true
		}
	}
	return origins, wildcard
}
