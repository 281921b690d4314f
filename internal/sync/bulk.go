package sync

import (
	"fmt"
	"log"
	"strconv"

	"github.com/cinedex/cinedex/internal/tmdb"
)

// BulkResult reports a bulk sync pass. Failed movies are skipped, not
// retried, with one message per failure.
type BulkResult struct {
	Synced int      `json:"synced"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// SyncPopular syncs up to limit movies from one page of the popular
// list; the caller pages by invoking again with the next page. With no
// filters it reads the popular list; any filter switches to the
// discover endpoint so release-date and genre constraints apply
// upstream. Per-movie failures are recorded and skipped.
func (s *Service) SyncPopular(page, limit int, filters tmdb.Filters) (*BulkResult, error) {
	if page < 1 {
		page = 1
	}
	var p *tmdb.Page
	var err error
	if filters.Empty() {
		p, err = s.catalog.Popular(page)
	} else {
		p, err = s.catalog.Discover(page, filters)
	}
	if err != nil {
		return nil, err
	}
	return s.syncPage(p, limit, filters), nil
}

// SearchAndSync syncs up to limit title matches from one page of
// search results. Search has no server-side filtering beyond the
// query, so all filters apply to the results here.
func (s *Service) SearchAndSync(query string, page, limit int, filters tmdb.Filters) (*BulkResult, error) {
	if page < 1 {
		page = 1
	}
	p, err := s.catalog.Search(query, page)
	if err != nil {
		return nil, err
	}
	return s.syncPage(p, limit, filters), nil
}

// syncPage reconciles at most limit entries of one result page, after
// client-side filtering.
func (s *Service) syncPage(p *tmdb.Page, limit int, filters tmdb.Filters) *BulkResult {
	result := &BulkResult{}
	attempted := 0
	for _, summary := range p.Results {
		if attempted >= limit {
			break
		}
		if !matchesFilters(summary, filters) {
			continue
		}
		attempted++
		if _, err := s.SyncMovie(summary.ID); err != nil {
			log.Printf("sync: failed to sync movie %d (%s): %v", summary.ID, summary.Title, err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", summary.Title, err))
			continue
		}
		result.Synced++
	}
	return result
}

// matchesFilters applies the client-side constraints to a list entry.
// Year bounds are read off the release date prefix; entries without a
// release date pass year filters.
func matchesFilters(m tmdb.MovieSummary, f tmdb.Filters) bool {
	if f.MinScore != 0 && m.VoteAverage < f.MinScore {
		return false
	}
	if f.MaxScore != 0 && m.VoteAverage > f.MaxScore {
		return false
	}
	if f.MinPopularity != 0 && m.Popularity < f.MinPopularity {
		return false
	}
	if f.MaxPopularity != 0 && m.Popularity > f.MaxPopularity {
		return false
	}
	if f.YearFrom != 0 || f.YearTo != 0 {
		if year, ok := releaseYear(m.ReleaseDate); ok {
			if f.YearFrom != 0 && year < f.YearFrom {
				return false
			}
			if f.YearTo != 0 && year > f.YearTo {
				return false
			}
		}
	}
	if f.GenreID != 0 {
		found := false
		for _, gid := range m.GenreIDs {
			if gid == f.GenreID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func releaseYear(releaseDate string) (int, bool) {
	if len(releaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}
