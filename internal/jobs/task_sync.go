package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/cinedex/cinedex/internal/sync"
	"github.com/cinedex/cinedex/internal/tmdb"
	"github.com/hibiken/asynq"
)

type SyncPopularPayload struct {
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
	Filters tmdb.Filters `json:"filters"`
}

type SyncSearchPayload struct {
	Query   string       `json:"query"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
	Filters tmdb.Filters `json:"filters"`
}

type SyncMoviePayload struct {
	TMDBID int `json:"tmdb_id"`
}

type SyncGenresPayload struct {
	NewOnly bool `json:"new_only"`
}

// SyncHandlers runs the long sync operations off the request path.
type SyncHandlers struct {
	svc *sync.Service
}

func NewSyncHandlers(svc *sync.Service) *SyncHandlers {
	return &SyncHandlers{svc: svc}
}

func (h *SyncHandlers) Register(q *Queue) {
	q.RegisterHandler(TaskSyncPopular, asynq.HandlerFunc(h.HandleSyncPopular))
	q.RegisterHandler(TaskSyncSearch, asynq.HandlerFunc(h.HandleSyncSearch))
	q.RegisterHandler(TaskSyncMovie, asynq.HandlerFunc(h.HandleSyncMovie))
	q.RegisterHandler(TaskSyncGenres, asynq.HandlerFunc(h.HandleSyncGenres))
	q.RegisterHandler(TaskContactsResolve, asynq.HandlerFunc(h.HandleContactsResolve))
}

func (h *SyncHandlers) HandleSyncPopular(ctx context.Context, t *asynq.Task) error {
	var p SyncPopularPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	result, err := h.svc.SyncPopular(p.Page, p.Limit, p.Filters)
	if err != nil {
		return err
	}
	log.Printf("jobs: popular sync done: %d synced, %d failed", result.Synced, result.Failed)
	return nil
}

func (h *SyncHandlers) HandleSyncSearch(ctx context.Context, t *asynq.Task) error {
	var p SyncSearchPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	result, err := h.svc.SearchAndSync(p.Query, p.Page, p.Limit, p.Filters)
	if err != nil {
		return err
	}
	log.Printf("jobs: search sync %q done: %d synced, %d failed", p.Query, result.Synced, result.Failed)
	return nil
}

func (h *SyncHandlers) HandleSyncMovie(ctx context.Context, t *asynq.Task) error {
	var p SyncMoviePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	movie, err := h.svc.SyncMovie(p.TMDBID)
	if err != nil {
		return err
	}
	log.Printf("jobs: movie sync done: %s (tmdb %d)", movie.Title, movie.TMDBID)
	return nil
}

func (h *SyncHandlers) HandleSyncGenres(ctx context.Context, t *asynq.Task) error {
	var p SyncGenresPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	var result *sync.GenreSyncResult
	var err error
	if p.NewOnly {
		result, err = h.svc.SyncNewGenres()
	} else {
		result, err = h.svc.SyncAllGenres()
	}
	if err != nil {
		return err
	}
	log.Printf("jobs: genre sync done: %d created, %d updated, %d skipped",
		result.Created, result.Updated, result.Skipped)
	return nil
}

func (h *SyncHandlers) HandleContactsResolve(ctx context.Context, t *asynq.Task) error {
	result, err := h.svc.SyncAllContacts()
	if err != nil {
		return err
	}
	log.Printf("jobs: contact image backfill done: %d updated, %d failed of %d",
		result.Updated, result.Failed, result.Total)
	return nil
}
