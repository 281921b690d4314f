package api

import (
	"net/http"
	"strconv"

	"github.com/cinedex/cinedex/internal/httputil"
	"github.com/cinedex/cinedex/internal/repository"
	"github.com/google/uuid"
)

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := repository.ListFilters{
		Title:         q.Get("title"),
		MinRating:     queryFloat(q.Get("min_rating")),
		MaxRating:     queryFloat(q.Get("max_rating")),
		MinPopularity: queryFloat(q.Get("min_popularity")),
		MaxPopularity: queryFloat(q.Get("max_popularity")),
		YearFrom:      queryInt(q.Get("year_from")),
		YearTo:        queryInt(q.Get("year_to")),
		Limit:         queryInt(q.Get("limit")),
		Offset:        queryInt(q.Get("offset")),
	}
	if g := q.Get("genre_id"); g != "" {
		gid, err := uuid.Parse(g)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid genre_id")
			return
		}
		filters.GenreID = gid
	}
	if filters.Limit == 0 {
		filters.Limit = 100
	}

	movies, err := s.movieRepo.List(filters)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteList(w, http.StatusOK, movies, len(movies))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movie)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}
	if err := s.movieRepo.Delete(id); err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleResyncMovie refreshes one local movie from TMDB.
func (s *Server) handleResyncMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}
	movie, err := s.movieRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	synced, err := s.syncSvc.SyncMovie(movie.TMDBID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, synced)
}

func (s *Server) handleUpdateDirector(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}
	movie, err := s.syncSvc.UpdateDirector(id)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movie)
}

func queryInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func queryFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
