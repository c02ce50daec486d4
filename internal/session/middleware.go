package session

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"calculator-widget/internal/handlers"
	"calculator-widget/internal/observability"
)

type contextKey string

const IDKey contextKey = "session_id"

func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, IDKey, id)
}

func IDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(IDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// Middleware authenticates the bearer token of each request and stores the
// session id it names in the request context.
func (t *Tokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			handlers.WriteError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		id, err := t.Parse(raw)
		if err != nil {
			observability.LoggerWithTrace(r.Context()).Warn("rejected session token",
				zap.Error(err),
				zap.String("request_id", observability.RequestIDFromContext(r.Context())),
			)
			handlers.WriteError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithID(r.Context(), id)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
