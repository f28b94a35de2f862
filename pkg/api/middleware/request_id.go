package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mkraskin/gemini-chat/pkg/logger"
)

// RequestID stamps every request with an id so log lines of one request can
// be correlated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.ContextWithRequestID(r.Context(), uuid.NewString()[:8])

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
