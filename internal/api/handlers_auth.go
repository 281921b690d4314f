package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/cinedex/cinedex/internal/auth"
	"github.com/cinedex/cinedex/internal/httputil"
	"github.com/cinedex/cinedex/internal/version"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Load("").Version,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		httputil.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	ttl := time.Duration(s.config.SessionTTLDays) * 24 * time.Hour
	token, err := auth.CreateSession(s.db.DB, user.ID.String(), user.IsAdmin, ttl)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token != "" {
		if err := auth.DeleteSession(s.db.DB, token); err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
