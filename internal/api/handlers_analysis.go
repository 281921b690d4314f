package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinedex/cinedex/internal/analysis"
	"github.com/cinedex/cinedex/internal/auth"
	"github.com/cinedex/cinedex/internal/httputil"
	"github.com/google/uuid"
)

type analysisRequest struct {
	Type          string  `json:"type"`
	DateFrom      string  `json:"date_from"`
	DateTo        string  `json:"date_to"`
	MinRating     float64 `json:"min_rating"`
	MaxRating     float64 `json:"max_rating"`
	MinPopularity float64 `json:"min_popularity"`
	MaxPopularity float64 `json:"max_popularity"`
}

func (req analysisRequest) toFilters(now time.Time) (analysis.Filters, error) {
	f := analysis.DefaultFilters(now)
	if req.DateFrom != "" {
		t, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return f, err
		}
		f.DateFrom = t
	}
	if req.DateTo != "" {
		t, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return f, err
		}
		f.DateTo = t
	}
	if req.MinRating != 0 {
		f.MinRating = req.MinRating
	}
	if req.MaxRating != 0 {
		f.MaxRating = req.MaxRating
	}
	if req.MinPopularity != 0 {
		f.MinPopularity = req.MinPopularity
	}
	if req.MaxPopularity != 0 {
		f.MaxPopularity = req.MaxPopularity
	}
	return f, nil
}

func (s *Server) handleAnalysisRun(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Type == "" {
		req.Type = string(analysis.TypeComprehensive)
	}
	filters, err := req.toFilters(time.Now())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "dates must be YYYY-MM-DD")
		return
	}

	result, err := s.analyzer.Run(analysis.Type(req.Type), filters)
	if err != nil {
		if errors.Is(err, analysis.ErrUnknownType) {
			httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type saveAnalysisRequest struct {
	Name string `json:"name"`
	analysisRequest
}

func (s *Server) handleAnalysisSave(w http.ResponseWriter, r *http.Request) {
	var req saveAnalysisRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "name is required")
		return
	}
	if req.Type == "" {
		req.Type = string(analysis.TypeComprehensive)
	}
	filters, err := req.toFilters(time.Now())
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "dates must be YYYY-MM-DD")
		return
	}

	result, err := s.analyzer.Run(analysis.Type(req.Type), filters)
	if err != nil {
		if errors.Is(err, analysis.ErrUnknownType) {
			httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		httputil.WriteDomainError(w, err)
		return
	}

	var createdBy *uuid.UUID
	if user := auth.UserFromContext(r.Context()); user != nil {
		if id, err := uuid.Parse(user.UserID); err == nil {
			createdBy = &id
		}
	}

	saved, err := s.analyzer.Save(req.Name, result, createdBy)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.analysisRepo.List()
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteList(w, http.StatusOK, analyses, len(analyses))
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid analysis id")
		return
	}
	a, err := s.analysisRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid analysis id")
		return
	}
	if err := s.analysisRepo.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
