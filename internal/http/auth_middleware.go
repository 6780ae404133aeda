package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"savings/internal/core"
)

type contextKey string

const sessionKey contextKey = "session"
const tokenIDKey contextKey = "token_id"

// sessionFromRequest validates the bearer token and checks the session is
// still alive in the store. A revoked token is indistinguishable from a
// missing one.
func (s *Server) sessionFromRequest(r *http.Request) (*core.Session, string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, "", false
	}

	claims, err := s.tokens.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, "", false
	}

	alive, err := s.store.SessionAlive(r.Context(), claims.TokenID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Session lookup error", "error", err)
		return nil, "", false
	}
	if !alive {
		return nil, "", false
	}

	return &core.Session{
		MemberID: claims.MemberID,
		Name:     claims.Name,
		Role:     claims.Role,
	}, claims.TokenID, true
}

// requireSession admits any authenticated member regardless of role.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, tokenID, ok := s.sessionFromRequest(r)
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r.WithContext(withSession(r.Context(), session, tokenID)))
	}
}

// requireRole admits only sessions holding the exact role.
func (s *Server) requireRole(role core.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, tokenID, ok := s.sessionFromRequest(r)
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		if !core.Authorize(session, role) {
			slog.WarnContext(r.Context(), "Access denied",
				"member_id", session.MemberID,
				"role", string(session.Role),
				"required", string(role),
				"url", r.URL.Path)
			writeError(w, r, http.StatusForbidden, "insufficient role")
			return
		}
		next(w, r.WithContext(withSession(r.Context(), session, tokenID)))
	}
}

func withSession(ctx context.Context, session *core.Session, tokenID string) context.Context {
	ctx = context.WithValue(ctx, sessionKey, session)
	return context.WithValue(ctx, tokenIDKey, tokenID)
}

func sessionFromContext(ctx context.Context) *core.Session {
	if s, ok := ctx.Value(sessionKey).(*core.Session); ok {
		return s
	}
	return nil
}

func tokenIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(tokenIDKey).(string); ok {
		return id
	}
	return ""
}
