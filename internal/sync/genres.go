package sync

import (
	"fmt"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

// GenreSyncResult reports what a genre reconciliation pass did. Updated
// counts genres that already existed and had their name refreshed;
// Skipped counts genres left untouched by a new-only pass.
type GenreSyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// SyncAllGenres pulls the canonical genre list and reconciles every
// entry: missing genres are created, existing ones get their name
// refreshed.
func (s *Service) SyncAllGenres() (*GenreSyncResult, error) {
	remote, err := s.catalog.GenreList()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genre list: %w", err)
	}

	result := &GenreSyncResult{Total: len(remote)}
	for _, rg := range remote {
		local, err := s.genres.GetByTMDBID(rg.ID)
		if err != nil {
			return nil, err
		}
		if local == nil {
			g := &models.Genre{
				ID:          uuid.New(),
				TMDBGenreID: rg.ID,
				Name:        rg.Name,
			}
			if err := s.genres.Create(g); err != nil {
				return nil, err
			}
			result.Created++
			continue
		}
		local.Name = rg.Name
		if err := s.genres.Update(local); err != nil {
			return nil, err
		}
		result.Updated++
	}
	return result, nil
}

// SyncNewGenres pulls the canonical genre list and creates only the
// genres not present locally. Existing genres are never modified.
func (s *Service) SyncNewGenres() (*GenreSyncResult, error) {
	remote, err := s.catalog.GenreList()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genre list: %w", err)
	}

	result := &GenreSyncResult{Total: len(remote)}
	for _, rg := range remote {
		local, err := s.genres.GetByTMDBID(rg.ID)
		if err != nil {
			return nil, err
		}
		if local != nil {
			result.Skipped++
			continue
		}
		g := &models.Genre{
			ID:          uuid.New(),
			TMDBGenreID: rg.ID,
			Name:        rg.Name,
		}
		if err := s.genres.Create(g); err != nil {
			return nil, err
		}
		result.Created++
	}
	return result, nil
}

// findOrCreateGenre resolves one TMDB genre reference during a movie
// sync, creating the local record on first sight.
func (s *Service) findOrCreateGenre(tmdbGenreID int, name string) (*models.Genre, error) {
	local, err := s.genres.GetByTMDBID(tmdbGenreID)
	if err != nil {
		return nil, err
	}
	if local != nil {
		return local, nil
	}
	g := &models.Genre{
		ID:          uuid.New(),
		TMDBGenreID: tmdbGenreID,
		Name:        name,
	}
	if err := s.genres.Create(g); err != nil {
		return nil, err
	}
	return g, nil
}
