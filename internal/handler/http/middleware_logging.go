package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chatter-social/chatter/internal/logger"
)

// withLogging emits one structured line per request after the response is
// written, carrying the matched route pattern so log queries can group by
// endpoint instead of raw URIs with ids and tokens in them.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		event := logger.FromRequest(r).Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", lw.status).
			Int("size", lw.size).
			Dur("duration", time.Since(start))

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				event = event.Str("route", pattern)
			}
		}

		event.Send()
	})
}
