package sync

import (
	"github.com/cinedex/cinedex/internal/tmdb"
)

// maxPages bounds the preview accumulation walk.
const maxPages = 50

// PreviewItem is one search hit shown before committing a bulk sync.
type PreviewItem struct {
	TMDBID        int     `json:"tmdb_id"`
	Title         string  `json:"title"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	Overview      string  `json:"overview,omitempty"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	ExistsLocally bool    `json:"exists_locally"`
}

// Preview runs a filtered search without writing anything, flagging
// which hits are already in the local catalog. The walk stops at the
// page cap or the result limit, whichever comes first.
func (s *Service) Preview(query string, limit int, filters tmdb.Filters) ([]PreviewItem, error) {
	existing, err := s.movies.TMDBIDSet()
	if err != nil {
		return nil, err
	}

	var items []PreviewItem
	for page := 1; page <= maxPages; page++ {
		p, err := s.catalog.Search(query, page)
		if err != nil {
			return nil, err
		}
		for _, summary := range p.Results {
			if limit > 0 && len(items) >= limit {
				return items, nil
			}
			if !matchesFilters(summary, filters) {
				continue
			}
			items = append(items, PreviewItem{
				TMDBID:        summary.ID,
				Title:         summary.Title,
				ReleaseDate:   summary.ReleaseDate,
				Overview:      summary.Overview,
				Popularity:    summary.Popularity,
				VoteAverage:   summary.VoteAverage,
				ExistsLocally: existing[summary.ID],
			})
		}
		if page >= p.TotalPages {
			break
		}
	}
	return items, nil
}
