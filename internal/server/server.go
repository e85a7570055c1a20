package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware decorates an http.Handler with extra behavior such as logging.
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that also declares which routes it serves,
// so a Router can register it without knowing its paths.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers and middleware and serves the combined mux.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// LoggingMiddleware logs each request's method, path, and duration.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}
