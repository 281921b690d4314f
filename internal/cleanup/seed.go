package cleanup

import (
	"time"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

// Test data occupies a TMDB ID range far above real IDs so it is easy
// to recognize and purge.
const seedBaseTMDBID = 999000

// SeedTestDuplicates writes three pairs of synthetic movies, one pair
// per detection criteria, so the cleanup flow can be exercised on a
// fresh install. Returns the number of movies created.
func (s *Session) SeedTestDuplicates() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	overview := "Synthetic duplicate for cleanup testing."
	alphaDate := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
	alphaRedux := time.Date(2021, 2, 11, 0, 0, 0, 0, time.UTC)
	betaDate := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)
	gammaDate := time.Date(2018, 3, 10, 0, 0, 0, 0, time.UTC)
	gammaAlt := time.Date(2018, 11, 22, 0, 0, 0, 0, time.UTC)

	seeds := []*models.Movie{
		// Same TMDB ID, nothing else in common.
		{TMDBID: seedBaseTMDBID + 1, Title: "Duplicate Alpha", ReleaseDate: &alphaDate, Overview: &overview, VoteAverage: 7.1, VoteCount: 120},
		{TMDBID: seedBaseTMDBID + 1, Title: "Duplicate Alpha Redux", ReleaseDate: &alphaRedux, VoteAverage: 6.4, VoteCount: 80},
		// Same title and release date, different TMDB IDs.
		{TMDBID: seedBaseTMDBID + 2, Title: "Duplicate Beta", ReleaseDate: &betaDate, Overview: &overview, VoteAverage: 8.0, VoteCount: 300},
		{TMDBID: seedBaseTMDBID + 3, Title: "Duplicate Beta", ReleaseDate: &betaDate, VoteAverage: 5.5, VoteCount: 40},
		// Similar titles in the same release year.
		{TMDBID: seedBaseTMDBID + 4, Title: "The Duplicate Gamma", ReleaseDate: &gammaDate, Overview: &overview, VoteAverage: 6.9, VoteCount: 95},
		{TMDBID: seedBaseTMDBID + 5, Title: "Duplicate Gamma!", ReleaseDate: &gammaAlt, VoteAverage: 6.9, VoteCount: 60},
	}

	created := 0
	now := time.Now()
	for _, m := range seeds {
		m.ID = uuid.New()
		m.Active = true
		m.ComputeDerived(now)
		if err := s.store.Create(m); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
