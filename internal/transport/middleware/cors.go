package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/words/internal/config"
)

// CORS answers preflight requests and sets the allow headers for listed
// origins. A "*" entry admits any origin without credentials; credentials
// are only granted to origins listed explicitly.
func CORS(cfg config.CORSConfig) Middleware {
	var (
		wildcard bool
		exact    = make(map[string]struct{})
	)
	for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			wildcard = true
		default:
			exact[o] = struct{}{}
		}
	}
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := exact[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
					if cfg.AllowCredentials {
						h.Set("Access-Control-Allow-Credentials", "true")
					}
				} else if wildcard {
					h.Set("Access-Control-Allow-Origin", "*")
				}
			}

			if r.Method == http.MethodOptions {
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
