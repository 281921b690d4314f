package analysis

import (
	"testing"
	"time"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMovies struct {
	movies []*models.Movie
}

func (f *fakeMovies) ListActive() ([]*models.Movie, error) { return f.movies, nil }

type fakeGenres struct {
	genres []*models.Genre
}

func (f *fakeGenres) List() ([]*models.Genre, error) { return f.genres, nil }

type fakeSaved struct {
	created []*models.SavedAnalysis
}

func (f *fakeSaved) Create(a *models.SavedAnalysis) error {
	f.created = append(f.created, a)
	return nil
}

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func movie(title string, release *time.Time, rating, popularity float64, genreIDs ...uuid.UUID) *models.Movie {
	return &models.Movie{
		ID:          uuid.New(),
		Title:       title,
		ReleaseDate: release,
		VoteAverage: rating,
		Popularity:  popularity,
		Active:      true,
		GenreIDs:    genreIDs,
	}
}

func rangeFilters(fromYear, toYear int) Filters {
	return Filters{
		DateFrom:      time.Date(fromYear, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:        time.Date(toYear, 12, 31, 0, 0, 0, 0, time.UTC),
		MaxRating:     10,
		MaxPopularity: 1000,
	}
}

func TestDefaultFiltersSpanTenYears(t *testing.T) {
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	f := DefaultFilters(now)
	assert.Equal(t, 2016, f.DateFrom.Year())
	assert.Equal(t, now, f.DateTo)
	assert.Equal(t, 10.0, f.MaxRating)
	assert.Equal(t, 1000.0, f.MaxPopularity)
}

func TestRunGeneralStats(t *testing.T) {
	movies := &fakeMovies{movies: []*models.Movie{
		movie("A", date(2015, 6, 1), 7.5, 300),
		movie("B", date(2018, 6, 1), 6.0, 100),
		movie("C", date(1950, 6, 1), 9.0, 50),
		movie("Undated", nil, 8.0, 500),
	}}
	analyzer := NewAnalyzer(movies, &fakeGenres{}, &fakeSaved{})

	result, err := analyzer.Run(TypeDecade, rangeFilters(2010, 2020))
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalMovies, "out-of-range and undated movies are excluded")
	assert.Equal(t, 6.75, result.AvgRating)
	assert.Equal(t, 200.0, result.AvgPopularity)
	assert.Equal(t, "2010-01-01 to 2020-12-31", result.DateRange)
}

func TestRunUnknownType(t *testing.T) {
	analyzer := NewAnalyzer(&fakeMovies{}, &fakeGenres{}, &fakeSaved{})
	_, err := analyzer.Run(Type("histogram"), rangeFilters(2010, 2020))
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDecadeReport(t *testing.T) {
	movies := &fakeMovies{movies: []*models.Movie{
		movie("A", date(1994, 1, 1), 8.0, 10),
		movie("B", date(1999, 1, 1), 6.0, 10),
		movie("C", date(2005, 1, 1), 7.0, 10),
	}}
	analyzer := NewAnalyzer(movies, &fakeGenres{}, &fakeSaved{})

	result, err := analyzer.Run(TypeDecade, rangeFilters(1990, 2010))
	require.NoError(t, err)

	assert.Contains(t, result.DecadeReport, "1990s: 2 movies (66.7%), avg rating 7.00")
	assert.Contains(t, result.DecadeReport, "2000s: 1 movies (33.3%), avg rating 7.00")
	assert.Empty(t, result.GenreReport, "single-type runs render only their report")
}

func TestGenreReport(t *testing.T) {
	action := &models.Genre{ID: uuid.New(), Name: "Action"}
	drama := &models.Genre{ID: uuid.New(), Name: "Drama"}
	movies := &fakeMovies{movies: []*models.Movie{
		movie("A", date(2015, 1, 1), 8.0, 10, action.ID, drama.ID),
		movie("B", date(2016, 1, 1), 6.0, 10, action.ID),
		movie("C", date(2017, 1, 1), 7.0, 10),
	}}
	analyzer := NewAnalyzer(movies, &fakeGenres{genres: []*models.Genre{action, drama}}, &fakeSaved{})

	result, err := analyzer.Run(TypeGenre, rangeFilters(2010, 2020))
	require.NoError(t, err)

	assert.Contains(t, result.GenreReport, "Action: 2 movies, avg rating 7.00")
	assert.Contains(t, result.GenreReport, "Drama: 1 movies, avg rating 8.00")
	assert.Contains(t, result.GenreReport, "(no genre): 1 movies")
}

func TestRatingPopularityQuadrants(t *testing.T) {
	movies := &fakeMovies{movies: []*models.Movie{
		movie("Pleaser", date(2015, 1, 1), 8.0, 400),
		movie("Gem", date(2015, 1, 1), 7.5, 50),
		movie("Mainstream", date(2015, 1, 1), 5.0, 300),
		movie("Niche", date(2015, 1, 1), 4.0, 10),
	}}
	analyzer := NewAnalyzer(movies, &fakeGenres{}, &fakeSaved{})

	result, err := analyzer.Run(TypeRatingPopularity, rangeFilters(2010, 2020))
	require.NoError(t, err)

	report := result.RatingPopularityReport
	assert.Contains(t, report, "Crowd pleasers (high rating, high popularity): 1 movies")
	assert.Contains(t, report, "Hidden gems (high rating, low popularity): 1 movies")
	assert.Contains(t, report, "Mainstream (low rating, high popularity): 1 movies")
	assert.Contains(t, report, "Niche (low rating, low popularity): 1 movies")
	assert.Contains(t, report, "e.g. Gem")
}

func TestGapsReportCollapsesEmptyRuns(t *testing.T) {
	movies := &fakeMovies{movies: []*models.Movie{
		movie("A", date(2010, 1, 1), 7.0, 10),
		movie("B", date(2010, 2, 1), 7.0, 10),
		movie("C", date(2010, 3, 1), 7.0, 10),
		movie("D", date(2014, 1, 1), 7.0, 10),
	}}
	analyzer := NewAnalyzer(movies, &fakeGenres{}, &fakeSaved{})

	result, err := analyzer.Run(TypeGaps, rangeFilters(2010, 2015))
	require.NoError(t, err)

	report := result.GapsReport
	assert.NotContains(t, report, "2010:", "well-covered years are not flagged")
	assert.Contains(t, report, "2011-2013: no movies")
	assert.Contains(t, report, "2014: only 1 movie(s)")
	assert.Contains(t, report, "2015: no movies")
}

func TestGapsReportChecksGenreCoverage(t *testing.T) {
	action := &models.Genre{ID: uuid.New(), Name: "Action"}
	western := &models.Genre{ID: uuid.New(), Name: "Western"}
	movies := &fakeMovies{movies: []*models.Movie{
		movie("A", date(2014, 1, 1), 7.0, 10, action.ID),
		movie("B", date(2014, 2, 1), 7.0, 10, action.ID),
		movie("C", date(2014, 3, 1), 7.0, 10, action.ID),
	}}
	analyzer := NewAnalyzer(movies, &fakeGenres{genres: []*models.Genre{action, western}}, &fakeSaved{})

	result, err := analyzer.Run(TypeGaps, rangeFilters(2014, 2014))
	require.NoError(t, err)

	assert.Contains(t, result.GapsReport, "Action: 3 movies")
	assert.Contains(t, result.GapsReport, "Western: no movies")
	assert.Contains(t, result.GapsReport, "1 of 2 genres covered")
}

func TestComprehensiveRendersEverything(t *testing.T) {
	movies := &fakeMovies{movies: []*models.Movie{
		movie("A", date(2015, 1, 1), 8.0, 400),
	}}
	analyzer := NewAnalyzer(movies, &fakeGenres{}, &fakeSaved{})

	result, err := analyzer.Run(TypeComprehensive, rangeFilters(2014, 2016))
	require.NoError(t, err)

	assert.NotEmpty(t, result.DecadeReport)
	assert.NotEmpty(t, result.GenreReport)
	assert.NotEmpty(t, result.RatingPopularityReport)
	assert.NotEmpty(t, result.GapsReport)
	assert.Contains(t, result.Summary, "Analyzed 1 movies")
}

func TestSave(t *testing.T) {
	saved := &fakeSaved{}
	movies := &fakeMovies{movies: []*models.Movie{
		movie("A", date(2015, 1, 1), 8.0, 400),
	}}
	analyzer := NewAnalyzer(movies, &fakeGenres{}, saved)

	result, err := analyzer.Run(TypeComprehensive, rangeFilters(2014, 2016))
	require.NoError(t, err)

	userID := uuid.New()
	record, err := analyzer.Save("yearly review", result, &userID)
	require.NoError(t, err)

	require.Len(t, saved.created, 1)
	assert.Equal(t, "yearly review", record.Name)
	assert.Equal(t, "comprehensive", record.AnalysisType)
	assert.Equal(t, 1, record.TotalMovies)
	assert.Equal(t, result.Summary, record.Summary)
	require.NotNil(t, record.CreatedBy)
	assert.Equal(t, userID, *record.CreatedBy)
}
