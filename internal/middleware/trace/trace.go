// Package trace assigns every request an id and logs its arrival.
package trace

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Tracer stamps requests with an id and the resolved client address.
type Tracer struct {
	extractIP  func(*http.Request) string
	suspicious func(*http.Request) bool
}

// New builds a Tracer. Either func may be nil.
func New(extractIP func(*http.Request) string, suspicious func(*http.Request) bool) *Tracer {
	return &Tracer{extractIP: extractIP, suspicious: suspicious}
}

// Middleware injects the request id into the context and logs the request
// start. Completion logging lives one layer up, where the status code is
// captured.
func (t *Tracer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		clientIP := ""
		if t.extractIP != nil {
			clientIP = t.extractIP(r)
		}

		slog.InfoContext(ctx, "HTTP request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if t.suspicious != nil && t.suspicious(r) {
			slog.WarnContext(ctx, "Suspicious request pattern",
				"request_id", requestID,
				"path", r.URL.Path,
				"client_ip", clientIP)
		}

		next.ServeHTTP(w, r)
	})
}

// RequestID extracts the request id from the context, empty if absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
