package api

import (
	"fmt"
	"net/http"

	"github.com/cinedex/cinedex/internal/httputil"
	"github.com/cinedex/cinedex/internal/jobs"
	"github.com/cinedex/cinedex/internal/tmdb"
)

type filtersRequest struct {
	YearFrom      int     `json:"year_from"`
	YearTo        int     `json:"year_to"`
	MinScore      float64 `json:"min_score"`
	MaxScore      float64 `json:"max_score"`
	MinPopularity float64 `json:"min_popularity"`
	MaxPopularity float64 `json:"max_popularity"`
	GenreID       int     `json:"genre_id"`
}

func (f filtersRequest) toFilters() tmdb.Filters {
	return tmdb.Filters{
		YearFrom:      f.YearFrom,
		YearTo:        f.YearTo,
		MinScore:      f.MinScore,
		MaxScore:      f.MaxScore,
		MinPopularity: f.MinPopularity,
		MaxPopularity: f.MaxPopularity,
		GenreID:       f.GenreID,
	}
}

type syncMovieRequest struct {
	TMDBID int  `json:"tmdb_id"`
	Async  bool `json:"async"`
}

func (s *Server) handleSyncMovie(w http.ResponseWriter, r *http.Request) {
	var req syncMovieRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.TMDBID <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "tmdb_id is required")
		return
	}

	if req.Async {
		taskID, err := s.jobQueue.EnqueueUnique(jobs.TaskSyncMovie,
			jobs.SyncMoviePayload{TMDBID: req.TMDBID},
			fmt.Sprintf("sync-movie-%d", req.TMDBID))
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
		return
	}

	movie, err := s.syncSvc.SyncMovie(req.TMDBID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movie)
}

type syncPopularRequest struct {
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Filters filtersRequest `json:"filters"`
	Async   bool           `json:"async"`
}

func (s *Server) handleSyncPopular(w http.ResponseWriter, r *http.Request) {
	var req syncPopularRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Async {
		taskID, err := s.jobQueue.EnqueueUnique(jobs.TaskSyncPopular,
			jobs.SyncPopularPayload{Page: req.Page, Limit: req.Limit, Filters: req.Filters.toFilters()},
			fmt.Sprintf("sync-popular-p%d", req.Page))
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
		return
	}

	result, err := s.syncSvc.SyncPopular(req.Page, req.Limit, req.Filters.toFilters())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type syncSearchRequest struct {
	Query   string         `json:"query"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Filters filtersRequest `json:"filters"`
	Async   bool           `json:"async"`
}

func (s *Server) handleSyncSearch(w http.ResponseWriter, r *http.Request) {
	var req syncSearchRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Query == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "query is required")
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Async {
		taskID, err := s.jobQueue.EnqueueUnique(jobs.TaskSyncSearch,
			jobs.SyncSearchPayload{Query: req.Query, Page: req.Page, Limit: req.Limit, Filters: req.Filters.toFilters()},
			fmt.Sprintf("sync-search-%s-p%d", req.Query, req.Page))
		if err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
		return
	}

	result, err := s.syncSvc.SearchAndSync(req.Query, req.Page, req.Limit, req.Filters.toFilters())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type syncGenresRequest struct {
	OnlyNew bool `json:"only_new"`
}

func (s *Server) handleSyncGenres(w http.ResponseWriter, r *http.Request) {
	var req syncGenresRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}

	var err error
	var result interface{}
	if req.OnlyNew {
		result, err = s.syncSvc.SyncNewGenres()
	} else {
		result, err = s.syncSvc.SyncAllGenres()
	}
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

type previewRequest struct {
	Query   string         `json:"query"`
	Limit   int            `json:"limit"`
	Filters filtersRequest `json:"filters"`
}

func (s *Server) handleSyncPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.Query == "" {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "query is required")
		return
	}

	items, err := s.syncSvc.Preview(req.Query, req.Limit, req.Filters.toFilters())
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteList(w, http.StatusOK, items, len(items))
}

func (s *Server) handleSyncContacts(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncSvc.SyncAllContacts()
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
