package cors

import (
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"
)

type Middleware struct {
	logger       *zap.Logger
	allowOrigins []string
}

func NewMiddleware(logger *zap.Logger, allowOrigins []string) *Middleware {
	return &Middleware{
		logger:       logger,
		allowOrigins: allowOrigins,
	}
}

func (m *Middleware) allowed(origin string) bool {
	return slices.Contains(m.allowOrigins, "*") || slices.Contains(m.allowOrigins, origin)
}

// HandlerFunc answers preflight requests itself and decorates every other
// response from an allowed origin with the CORS headers.
func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next(w, r)
			return
		}

		if !m.allowed(origin) {
			m.logger.Debug("Blocked request from origin", zap.String("origin", origin), zap.String("path", r.URL.Path))
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next(w, r)
			return
		}

		header := w.Header()
		header.Set("Access-Control-Allow-Origin", origin)
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			header.Set("Access-Control-Allow-Methods", strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", "))
			header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept-Language, traceparent, baggage")
			header.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		header.Set("Access-Control-Expose-Headers", "Content-Disposition")
		next(w, r)
	}
}
