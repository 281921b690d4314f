package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

// Type selects which report an analysis run produces. Comprehensive
// produces all of them.
type Type string

const (
	TypeDecade           Type = "decade"
	TypeGenre            Type = "genre"
	TypeRatingPopularity Type = "rating_popularity"
	TypeGaps             Type = "gaps"
	TypeComprehensive    Type = "comprehensive"
)

var ErrUnknownType = errors.New("unknown analysis type")

// Quadrant thresholds for the rating/popularity breakdown.
const (
	ratingThreshold     = 7.0
	popularityThreshold = 200.0
)

// MovieSource provides the movie set to analyze, genre IDs included.
type MovieSource interface {
	ListActive() ([]*models.Movie, error)
}

// GenreSource resolves genre IDs to names for the genre report.
type GenreSource interface {
	List() ([]*models.Genre, error)
}

// SavedStore persists analysis runs.
type SavedStore interface {
	Create(a *models.SavedAnalysis) error
}

// Filters bounds the movie set under analysis. Movies without a
// release date are excluded, since every report is time-based.
type Filters struct {
	DateFrom      time.Time `json:"date_from"`
	DateTo        time.Time `json:"date_to"`
	MinRating     float64   `json:"min_rating"`
	MaxRating     float64   `json:"max_rating"`
	MinPopularity float64   `json:"min_popularity"`
	MaxPopularity float64   `json:"max_popularity"`
}

// DefaultFilters covers the last ten years with open rating and
// popularity bounds.
func DefaultFilters(now time.Time) Filters {
	return Filters{
		DateFrom:      now.AddDate(-10, 0, 0),
		DateTo:        now,
		MinRating:     0,
		MaxRating:     10,
		MinPopularity: 0,
		MaxPopularity: 1000,
	}
}

func (f Filters) matches(m *models.Movie) bool {
	if m.ReleaseDate == nil {
		return false
	}
	if m.ReleaseDate.Before(f.DateFrom) || m.ReleaseDate.After(f.DateTo) {
		return false
	}
	if m.VoteAverage < f.MinRating || m.VoteAverage > f.MaxRating {
		return false
	}
	if m.Popularity < f.MinPopularity || m.Popularity > f.MaxPopularity {
		return false
	}
	return true
}

// Result is one analysis run. Report fields are rendered text, filled
// according to the run type.
type Result struct {
	Type          Type    `json:"type"`
	Filters       Filters `json:"filters"`
	TotalMovies   int     `json:"total_movies"`
	AvgRating     float64 `json:"avg_rating"`
	AvgPopularity float64 `json:"avg_popularity"`
	DateRange     string  `json:"date_range"`

	DecadeReport           string `json:"decade_report,omitempty"`
	GenreReport            string `json:"genre_report,omitempty"`
	RatingPopularityReport string `json:"rating_popularity_report,omitempty"`
	GapsReport             string `json:"gaps_report,omitempty"`
	Summary                string `json:"summary,omitempty"`
}

type Analyzer struct {
	movies MovieSource
	genres GenreSource
	saved  SavedStore
}

func NewAnalyzer(movies MovieSource, genres GenreSource, saved SavedStore) *Analyzer {
	return &Analyzer{movies: movies, genres: genres, saved: saved}
}

// Run analyzes the filtered collection and renders the reports for the
// requested type.
func (a *Analyzer) Run(typ Type, f Filters) (*Result, error) {
	switch typ {
	case TypeDecade, TypeGenre, TypeRatingPopularity, TypeGaps, TypeComprehensive:
	default:
		return nil, ErrUnknownType
	}

	all, err := a.movies.ListActive()
	if err != nil {
		return nil, err
	}
	var movies []*models.Movie
	for _, m := range all {
		if f.matches(m) {
			movies = append(movies, m)
		}
	}

	result := &Result{
		Type:      typ,
		Filters:   f,
		DateRange: fmt.Sprintf("%s to %s", f.DateFrom.Format("2006-01-02"), f.DateTo.Format("2006-01-02")),
	}
	result.TotalMovies = len(movies)
	if len(movies) > 0 {
		var ratingSum, popularitySum float64
		for _, m := range movies {
			ratingSum += m.VoteAverage
			popularitySum += m.Popularity
		}
		result.AvgRating = round2(ratingSum / float64(len(movies)))
		result.AvgPopularity = round2(popularitySum / float64(len(movies)))
	}

	if typ == TypeDecade || typ == TypeComprehensive {
		result.DecadeReport = a.decadeReport(movies)
	}
	if typ == TypeGenre || typ == TypeComprehensive {
		report, err := a.genreReport(movies)
		if err != nil {
			return nil, err
		}
		result.GenreReport = report
	}
	if typ == TypeRatingPopularity || typ == TypeComprehensive {
		result.RatingPopularityReport = a.ratingPopularityReport(movies)
	}
	if typ == TypeGaps || typ == TypeComprehensive {
		report, err := a.gapsReport(movies, f)
		if err != nil {
			return nil, err
		}
		result.GapsReport = report
	}
	if typ == TypeComprehensive {
		result.Summary = a.summary(result)
	}
	return result, nil
}

// Save persists a run under the given name.
func (a *Analyzer) Save(name string, r *Result, createdBy *uuid.UUID) (*models.SavedAnalysis, error) {
	dateFrom, dateTo := r.Filters.DateFrom, r.Filters.DateTo
	saved := &models.SavedAnalysis{
		ID:                     uuid.New(),
		Name:                   name,
		AnalysisType:           string(r.Type),
		DateFrom:               &dateFrom,
		DateTo:                 &dateTo,
		MinRating:              r.Filters.MinRating,
		MaxRating:              r.Filters.MaxRating,
		MinPopularity:          r.Filters.MinPopularity,
		MaxPopularity:          r.Filters.MaxPopularity,
		TotalMovies:            r.TotalMovies,
		AvgRating:              r.AvgRating,
		AvgPopularity:          r.AvgPopularity,
		DateRange:              r.DateRange,
		DecadeReport:           r.DecadeReport,
		GenreReport:            r.GenreReport,
		RatingPopularityReport: r.RatingPopularityReport,
		GapsReport:             r.GapsReport,
		Summary:                r.Summary,
		CreatedBy:              createdBy,
	}
	if err := a.saved.Create(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
