package api

import (
	"net/http"
	"strings"

	"github.com/cinedex/cinedex/internal/config"
	"github.com/cinedex/cinedex/internal/httputil"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	apiKey, err := s.settingsRepo.Get(config.SettingTMDBAPIKey)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	baseURL, err := s.settingsRepo.Get(config.SettingTMDBBaseURL)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if baseURL == "" {
		baseURL = s.config.TMDBBaseURL
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tmdb_api_key_set": apiKey != "" || s.config.TMDBAPIKey != "",
		"tmdb_api_key":     maskKey(apiKey),
		"tmdb_base_url":    baseURL,
	})
}

type settingsRequest struct {
	TMDBAPIKey  *string `json:"tmdb_api_key"`
	TMDBBaseURL *string `json:"tmdb_base_url"`
}

// handlePutSettings persists the TMDB credentials and reconfigures the
// live client, so no restart is needed after changing the key.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	if req.TMDBAPIKey != nil {
		if err := s.settingsRepo.Set(config.SettingTMDBAPIKey, *req.TMDBAPIKey); err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		s.config.TMDBAPIKey = *req.TMDBAPIKey
	}
	if req.TMDBBaseURL != nil {
		if err := s.settingsRepo.Set(config.SettingTMDBBaseURL, *req.TMDBBaseURL); err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		s.config.TMDBBaseURL = *req.TMDBBaseURL
	}
	s.tmdb.Configure(s.config.TMDBAPIKey, s.config.TMDBBaseURL)

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// maskKey hides all but the last four characters.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
