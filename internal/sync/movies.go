package sync

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/cinedex/cinedex/internal/tmdb"
	"github.com/google/uuid"
)

// maxActors caps the cast stored per movie, keeping the most popular
// names only.
const maxActors = 5

// SyncMovie reconciles one movie against TMDB, keyed by TMDB ID. The
// pass is best-effort and not atomic: the movie record, the contact
// records and the association rows are written in separate steps, and
// a failure partway leaves earlier writes in place.
//
// A credits fetch failure degrades the sync rather than failing it:
// the movie is written without director info and the existing cast
// associations are left untouched.
func (s *Service) SyncMovie(tmdbID int) (*models.Movie, error) {
	details, err := s.catalog.MovieDetails(tmdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", tmdbID, err)
	}

	credits, err := s.catalog.MovieCredits(tmdbID)
	if err != nil {
		log.Printf("sync: credits unavailable for movie %d: %v", tmdbID, err)
		credits = nil
	}

	var director *models.Person
	var actorIDs []uuid.UUID
	if credits != nil {
		director, err = s.resolveDirector(credits)
		if err != nil {
			return nil, err
		}
		actorIDs, err = s.resolveTopActors(credits)
		if err != nil {
			return nil, err
		}
	}

	genreIDs := make([]uuid.UUID, 0, len(details.Genres))
	for _, rg := range details.Genres {
		g, err := s.findOrCreateGenre(rg.ID, rg.Name)
		if err != nil {
			return nil, err
		}
		genreIDs = append(genreIDs, g.ID)
	}

	now := time.Now()
	movie, err := s.movies.GetByTMDBID(tmdbID)
	if err != nil {
		return nil, err
	}
	created := movie == nil
	if created {
		movie = &models.Movie{
			ID:     uuid.New(),
			TMDBID: tmdbID,
			Active: true,
		}
	}

	applyDetails(movie, details)
	if credits != nil {
		if director != nil {
			movie.Director = &director.Name
			movie.DirectorID = &director.ID
		} else {
			movie.Director = nil
			movie.DirectorID = nil
		}
	}
	movie.ComputeDerived(now)
	movie.LastSync = &now

	if err := movie.Validate(now); err != nil {
		return nil, err
	}

	if created {
		err = s.movies.Create(movie)
	} else {
		err = s.movies.Update(movie)
	}
	if err != nil {
		return nil, err
	}

	if err := s.movies.SetGenres(movie.ID, genreIDs); err != nil {
		return nil, err
	}
	movie.GenreIDs = genreIDs

	if credits != nil {
		if err := s.movies.SetActors(movie.ID, actorIDs); err != nil {
			return nil, err
		}
		movie.ActorIDs = actorIDs
	}
	return movie, nil
}

// UpdateDirector re-fetches credits for an already-synced movie and
// rewrites only the director fields.
func (s *Service) UpdateDirector(movieID uuid.UUID) (*models.Movie, error) {
	movie, err := s.movies.GetByID(movieID)
	if err != nil {
		return nil, err
	}

	credits, err := s.catalog.MovieCredits(movie.TMDBID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch credits for movie %d: %w", movie.TMDBID, err)
	}

	director, err := s.resolveDirector(credits)
	if err != nil {
		return nil, err
	}
	if director != nil {
		movie.Director = &director.Name
		movie.DirectorID = &director.ID
	} else {
		movie.Director = nil
		movie.DirectorID = nil
	}

	if err := s.movies.Update(movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// resolveDirector picks the first crew member whose job is Director.
func (s *Service) resolveDirector(credits *tmdb.Credits) (*models.Person, error) {
	for _, crew := range credits.Crew {
		if crew.Job == "Director" {
			return s.ResolvePerson(crew.Name, models.RoleDirector, crew.ProfilePath)
		}
	}
	return nil, nil
}

// resolveTopActors keeps the most popular cast members up to the cap.
func (s *Service) resolveTopActors(credits *tmdb.Credits) ([]uuid.UUID, error) {
	cast := make([]tmdb.CastMember, len(credits.Cast))
	copy(cast, credits.Cast)
	sort.SliceStable(cast, func(i, j int) bool {
		return cast[i].Popularity > cast[j].Popularity
	})
	if len(cast) > maxActors {
		cast = cast[:maxActors]
	}

	var ids []uuid.UUID
	for _, c := range cast {
		p, err := s.ResolvePerson(c.Name, models.RoleActor, c.ProfilePath)
		if err != nil {
			return nil, err
		}
		if p != nil {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func applyDetails(movie *models.Movie, details *tmdb.Movie) {
	movie.Title = details.Title
	movie.OriginalTitle = optionalString(details.OriginalTitle)
	movie.Overview = optionalString(details.Overview)
	movie.ReleaseDate = parseReleaseDate(details.ReleaseDate)
	movie.Popularity = details.Popularity
	movie.VoteAverage = details.VoteAverage
	movie.VoteCount = details.VoteCount
	movie.PosterPath = optionalString(details.PosterPath)
	movie.BackdropPath = optionalString(details.BackdropPath)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseReleaseDate turns TMDB's YYYY-MM-DD string into a time, nil when
// absent or malformed.
func parseReleaseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
