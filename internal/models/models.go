package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Age categories derived from release date.
const (
	AgeClassic = "classic"
	AgeRecent  = "recent"
	AgeNew     = "new"
)

// Popularity categories derived from the TMDB popularity score.
const (
	PopularityViral  = "viral"
	PopularityHigh   = "high"
	PopularityMedium = "medium"
	PopularityLow    = "low"
)

// Person roles used for contact resolution.
const (
	RoleDirector = "director"
	RoleActor    = "actor"
)

// Movie is a locally synced TMDB movie. Optional fields are pointers;
// popularity/vote fields default to zero when absent upstream.
type Movie struct {
	ID                  uuid.UUID  `json:"id"`
	TMDBID              int        `json:"tmdb_id"`
	Title               string     `json:"title"`
	OriginalTitle       *string    `json:"original_title,omitempty"`
	Overview            *string    `json:"overview,omitempty"`
	ReleaseDate         *time.Time `json:"release_date,omitempty"`
	Popularity          float64    `json:"popularity"`
	VoteAverage         float64    `json:"vote_average"`
	VoteCount           int        `json:"vote_count"`
	PosterPath          *string    `json:"poster_path,omitempty"`
	BackdropPath        *string    `json:"backdrop_path,omitempty"`
	Director            *string    `json:"director,omitempty"`
	DirectorID          *uuid.UUID `json:"director_id,omitempty"`
	AgeCategory         *string    `json:"age_category,omitempty"`
	PopularityCategory  *string    `json:"popularity_category,omitempty"`
	RecommendationScore float64    `json:"recommendation_score"`
	Active              bool       `json:"active"`
	LastSync            *time.Time `json:"last_sync,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Associations, loaded separately from the join tables.
	GenreIDs []uuid.UUID `json:"genre_ids,omitempty"`
	ActorIDs []uuid.UUID `json:"actor_ids,omitempty"`
}

// Genre is a TMDB movie genre.
type Genre struct {
	ID          uuid.UUID `json:"id"`
	TMDBGenreID int       `json:"tmdb_genre_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Person is a shared contact for directors and actors. Identity is the
// display name plus role flags; a single person can hold both roles.
// There is no TMDB person ID linkage, so two different people sharing a
// name and role resolve to the same contact.
type Person struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	IsDirector  bool      `json:"is_director"`
	IsActor     bool      `json:"is_actor"`
	JobTitle    *string   `json:"job_title,omitempty"`
	ProfilePath *string   `json:"profile_path,omitempty"`
	Photo       []byte    `json:"-"`
	HasPhoto    bool      `json:"has_photo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is an API account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// SavedAnalysis is a persisted collection analysis run.
type SavedAnalysis struct {
	ID                     uuid.UUID  `json:"id"`
	Name                   string     `json:"name"`
	AnalysisType           string     `json:"analysis_type"`
	DateFrom               *time.Time `json:"date_from,omitempty"`
	DateTo                 *time.Time `json:"date_to,omitempty"`
	MinRating              float64    `json:"min_rating"`
	MaxRating              float64    `json:"max_rating"`
	MinPopularity          float64    `json:"min_popularity"`
	MaxPopularity          float64    `json:"max_popularity"`
	TotalMovies            int        `json:"total_movies"`
	AvgRating              float64    `json:"avg_rating"`
	AvgPopularity          float64    `json:"avg_popularity"`
	DateRange              string     `json:"date_range"`
	DecadeReport           string     `json:"decade_report,omitempty"`
	GenreReport            string     `json:"genre_report,omitempty"`
	RatingPopularityReport string     `json:"rating_popularity_report,omitempty"`
	GapsReport             string     `json:"gaps_report,omitempty"`
	Summary                string     `json:"summary,omitempty"`
	CreatedBy              *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// ValidationError reports a movie field that violates a write-time constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Validate enforces the write-time constraints: vote_average in [0,10],
// vote_count >= 0, release_date not in the future.
func (m *Movie) Validate(now time.Time) error {
	if m.VoteAverage < 0 || m.VoteAverage > 10 {
		return &ValidationError{Field: "vote_average", Reason: fmt.Sprintf("must be between 0 and 10, got %g", m.VoteAverage)}
	}
	if m.VoteCount < 0 {
		return &ValidationError{Field: "vote_count", Reason: fmt.Sprintf("must not be negative, got %d", m.VoteCount)}
	}
	if m.ReleaseDate != nil && m.ReleaseDate.After(now) {
		return &ValidationError{Field: "release_date", Reason: fmt.Sprintf("cannot be in the future: %s", m.ReleaseDate.Format("2006-01-02"))}
	}
	return nil
}

// ComputeDerived recomputes age category, popularity category and
// recommendation score from the current field values.
func (m *Movie) ComputeDerived(now time.Time) {
	m.AgeCategory = ComputeAgeCategory(m.ReleaseDate, now)
	m.PopularityCategory = ComputePopularityCategory(m.Popularity)
	m.RecommendationScore = ComputeRecommendationScore(m.Popularity, m.VoteAverage)
}

// ComputeAgeCategory buckets a release date by age in whole years:
// age >= 30 classic, 5 < age < 30 recent, age <= 5 new. A movie released
// exactly five years ago lands in "new". Nil when no release date.
func ComputeAgeCategory(release *time.Time, now time.Time) *string {
	if release == nil {
		return nil
	}
	age := 0
	if !now.Before(*release) {
		age = int(now.Sub(*release).Hours()/24) / 365
	}
	var cat string
	switch {
	case age >= 30:
		cat = AgeClassic
	case age > 5:
		cat = AgeRecent
	default:
		cat = AgeNew
	}
	return &cat
}

// ComputePopularityCategory buckets the popularity score: > 500 viral,
// > 250 high, > 150 medium, else low. Nil when popularity is zero.
func ComputePopularityCategory(popularity float64) *string {
	if popularity == 0 {
		return nil
	}
	var cat string
	switch {
	case popularity > 500:
		cat = PopularityViral
	case popularity > 250:
		cat = PopularityHigh
	case popularity > 150:
		cat = PopularityMedium
	default:
		cat = PopularityLow
	}
	return &cat
}

// ComputeRecommendationScore is round((popularity + vote_average*100)/100, 2)
// when both inputs are non-zero, else 0.
func ComputeRecommendationScore(popularity, voteAverage float64) float64 {
	if popularity == 0 || voteAverage == 0 {
		return 0
	}
	return math.Round((popularity+voteAverage*100)/100*100) / 100
}
