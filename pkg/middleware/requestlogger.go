package middleware

import (
	"log/slog"
	"net/http"

	"github.com/KiranKumarPM/servon-1/pkg/logger"
)

// RequestLogger stores a logger carrying the request, user and trace ids in
// the request context for handlers to pick up with logger.FromContext. Mount
// it after RequestID, Tracing and Authenticate so those ids are present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.Enrich(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
