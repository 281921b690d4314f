package cleanup

import (
	"fmt"
	"log"
	"time"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

// Result reports a merge or delete pass. Processed counts groups fully
// handled; groups that errored are skipped and reported.
type Result struct {
	Processed int      `json:"processed"`
	Removed   int      `json:"removed"`
	Errors    []string `json:"errors,omitempty"`
}

// Merge consolidates each detected group into its keeper and deletes
// the other members. Groups without exactly one keeper, and groups
// whose writes fail, are logged and skipped; the rest proceed. The
// session returns to idle afterwards regardless of per-group errors.
func (s *Session) Merge() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDetected {
		return nil, ErrNoDetection
	}

	result := &Result{}
	for _, g := range s.groups {
		if err := s.mergeGroup(g, result); err != nil {
			log.Printf("cleanup: skipping group %d: %v", g.Number, err)
			result.Errors = append(result.Errors, fmt.Sprintf("group %d: %v", g.Number, err))
			continue
		}
		result.Processed++
	}

	s.groups = nil
	s.state = StateIdle
	return result, nil
}

// Delete removes every non-keeper member of every detected group
// without merging any data first. The session returns to idle.
func (s *Session) Delete() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDetected {
		return nil, ErrNoDetection
	}

	result := &Result{}
	for _, g := range s.groups {
		keeper := keeperOf(g)
		if keeper == nil {
			msg := fmt.Sprintf("group %d: no keeper selected", g.Number)
			log.Printf("cleanup: %s", msg)
			result.Errors = append(result.Errors, msg)
			continue
		}
		failed := false
		for _, member := range g.Members {
			if member.Keep {
				continue
			}
			if err := s.store.Delete(member.Movie.ID); err != nil {
				log.Printf("cleanup: failed to delete %s: %v", member.Movie.Title, err)
				result.Errors = append(result.Errors, fmt.Sprintf("group %d: %v", g.Number, err))
				failed = true
				break
			}
			result.Removed++
		}
		if !failed {
			result.Processed++
		}
	}

	s.groups = nil
	s.state = StateIdle
	return result, nil
}

func (s *Session) mergeGroup(g *Group, result *Result) error {
	keeper := keeperOf(g)
	if keeper == nil {
		return fmt.Errorf("no keeper selected")
	}

	merged := *keeper.Movie
	genres := make(map[uuid.UUID]bool)
	for _, gid := range merged.GenreIDs {
		genres[gid] = true
	}

	for _, member := range g.Members {
		if member.Keep {
			continue
		}
		mergeFields(&merged, member.Movie)
		for _, gid := range member.Movie.GenreIDs {
			genres[gid] = true
		}
	}

	merged.GenreIDs = merged.GenreIDs[:0]
	for gid := range genres {
		merged.GenreIDs = append(merged.GenreIDs, gid)
	}
	merged.ComputeDerived(time.Now())

	if err := s.store.Update(&merged); err != nil {
		return err
	}
	if err := s.store.SetGenres(merged.ID, merged.GenreIDs); err != nil {
		return err
	}
	for _, member := range g.Members {
		if member.Keep {
			continue
		}
		if err := s.store.Delete(member.Movie.ID); err != nil {
			return err
		}
		result.Removed++
	}
	*keeper.Movie = merged
	return nil
}

// mergeFields copies data from a doomed duplicate into the keeper:
// blank text fields are filled, and a larger vote count is adopted
// together with its paired average.
func mergeFields(keeper, other *models.Movie) {
	if blank(keeper.Overview) && !blank(other.Overview) {
		keeper.Overview = other.Overview
	}
	if blank(keeper.Director) && !blank(other.Director) {
		keeper.Director = other.Director
		keeper.DirectorID = other.DirectorID
	}
	if blank(keeper.PosterPath) && !blank(other.PosterPath) {
		keeper.PosterPath = other.PosterPath
	}
	if blank(keeper.BackdropPath) && !blank(other.BackdropPath) {
		keeper.BackdropPath = other.BackdropPath
	}
	if other.VoteCount > keeper.VoteCount {
		keeper.VoteCount = other.VoteCount
		keeper.VoteAverage = other.VoteAverage
	}
}

func keeperOf(g *Group) *Member {
	var keeper *Member
	for _, member := range g.Members {
		if member.Keep {
			if keeper != nil {
				return nil
			}
			keeper = member
		}
	}
	return keeper
}

func blank(s *string) bool {
	return s == nil || *s == ""
}
