package api

import (
	"net/http"

	"github.com/cinedex/cinedex/internal/httputil"
	"github.com/google/uuid"
)

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.genreRepo.List()
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteList(w, http.StatusOK, genres, len(genres))
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := queryInt(q.Get("limit"))
	if limit == 0 {
		limit = 100
	}
	people, err := s.personRepo.List(q.Get("role"), limit, queryInt(q.Get("offset")))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	httputil.WriteList(w, http.StatusOK, people, len(people))
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid person id")
		return
	}
	p, err := s.personRepo.GetByID(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetPersonPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid person id")
		return
	}
	photo, err := s.personRepo.GetPhoto(id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if len(photo) == 0 {
		httputil.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no photo stored")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "max-age=86400")
	w.Write(photo)
}
