package api

import (
	"errors"
	"net/http"

	"github.com/cinedex/cinedex/internal/cleanup"
	"github.com/cinedex/cinedex/internal/httputil"
	"github.com/google/uuid"
)

type detectRequest struct {
	Criteria string `json:"criteria"`
	Policy   string `json:"policy"`
}

func (s *Server) handleCleanupDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Criteria == "" {
		req.Criteria = string(cleanup.CriteriaTMDBID)
	}
	if req.Policy == "" {
		req.Policy = string(cleanup.KeepMostComplete)
	}

	report, err := s.cleanup.Detect(cleanup.Criteria(req.Criteria), cleanup.KeepPolicy(req.Policy))
	if err != nil {
		if errors.Is(err, cleanup.ErrUnknownCriteria) || errors.Is(err, cleanup.ErrUnknownPolicy) {
			httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handleCleanupGroups(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.cleanup.Groups())
}

type keepRequest struct {
	Group   int       `json:"group"`
	MovieID uuid.UUID `json:"movie_id"`
}

func (s *Server) handleCleanupKeep(w http.ResponseWriter, r *http.Request) {
	var req keepRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if err := s.cleanup.SetKeep(req.Group, req.MovieID); err != nil {
		if errors.Is(err, cleanup.ErrNoDetection) {
			httputil.WriteError(w, http.StatusConflict, "NO_DETECTION", err.Error())
			return
		}
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.cleanup.Groups())
}

func (s *Server) handleCleanupMerge(w http.ResponseWriter, r *http.Request) {
	result, err := s.cleanup.Merge()
	if err != nil {
		if errors.Is(err, cleanup.ErrNoDetection) {
			httputil.WriteError(w, http.StatusConflict, "NO_DETECTION", err.Error())
			return
		}
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleCleanupDelete(w http.ResponseWriter, r *http.Request) {
	result, err := s.cleanup.Delete()
	if err != nil {
		if errors.Is(err, cleanup.ErrNoDetection) {
			httputil.WriteError(w, http.StatusConflict, "NO_DETECTION", err.Error())
			return
		}
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleCleanupSeed(w http.ResponseWriter, r *http.Request) {
	created, err := s.cleanup.SeedTestDuplicates()
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"created": created})
}
