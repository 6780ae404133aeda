package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"savings/internal/auth"
	"savings/internal/core"
	"savings/internal/ledger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	Session core.Session `json:"session"`
}

// handleLogin checks the credential and mints a session token. The session
// payload in the response is authoritative; clients must not reconstruct it
// from stale local state.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	cred, err := s.store.CredentialByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, r, http.StatusUnauthorized, auth.ErrBadCredentials.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Credential lookup error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "login failed")
		return
	}
	if err := auth.VerifyPassword(cred.PasswordHash, req.Password); err != nil {
		writeError(w, r, http.StatusUnauthorized, auth.ErrBadCredentials.Error())
		return
	}

	token, claims, err := s.tokens.Mint(cred.MemberID, cred.Name, cred.Role)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token mint error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "login failed")
		return
	}
	if err := s.store.CreateSession(r.Context(), claims.TokenID, cred.MemberID); err != nil {
		slog.ErrorContext(r.Context(), "Session create error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "login failed")
		return
	}

	slog.InfoContext(r.Context(), "Member logged in",
		"member_id", cred.MemberID,
		"role", string(cred.Role))

	writeJSON(w, r, http.StatusOK, loginResponse{
		Token: token,
		Session: core.Session{
			MemberID: cred.MemberID,
			Name:     cred.Name,
			Role:     cred.Role,
		},
	})
}

// handleLogout revokes the session synchronously. Once the response is
// written the token no longer authorizes anything.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	tokenID := tokenIDFromContext(r.Context())
	if tokenID == "" {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := s.store.RevokeSession(r.Context(), tokenID); err != nil {
		slog.ErrorContext(r.Context(), "Session revoke error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "logout failed")
		return
	}

	if session := sessionFromContext(r.Context()); session != nil {
		slog.InfoContext(r.Context(), "Member logged out", "member_id", session.MemberID)
	}
	w.WriteHeader(http.StatusNoContent)
}
