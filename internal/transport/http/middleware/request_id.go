package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"hrmconsole/internal/requestctx"
)

// RequestID accepts an inbound X-Request-ID or mints one, echoes it and
// attaches a request-scoped logger.
func RequestID(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" || len(reqID) > 128 {
				reqID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", reqID)
			ctx := requestctx.WithRequestID(r.Context(), reqID)
			ctx = requestctx.WithLogger(ctx, logger.With("requestId", reqID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
