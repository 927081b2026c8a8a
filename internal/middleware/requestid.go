package middleware

import (
	"context"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey    contextKey = "request_id"
	requestIDHeader            = "X-Request-ID"
)

// RequestID settles on one id per request. An id already assigned by chi's
// RequestID middleware wins, then the inbound header, then a fresh uuid.
// The chosen id is stored under both context keys and echoed back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rid := chimw.GetReqID(ctx)
		if rid == "" {
			rid = strings.TrimSpace(r.Header.Get(requestIDHeader))
		}
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx = context.WithValue(ctx, requestIDKey, rid)
		ctx = context.WithValue(ctx, chimw.RequestIDKey, rid)
		w.Header().Set(requestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return chimw.GetReqID(ctx)
}
