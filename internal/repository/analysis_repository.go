package repository

import (
	"database/sql"
	"fmt"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, name, analysis_type, date_from, date_to,
	min_rating, max_rating, min_popularity, max_popularity,
	total_movies, avg_rating, avg_popularity, date_range,
	decade_report, genre_report, rating_popularity_report, gaps_report, summary,
	created_by, created_at`

func (r *AnalysisRepository) Create(a *models.SavedAnalysis) error {
	query := `INSERT INTO saved_analyses (id, name, analysis_type, date_from, date_to,
		min_rating, max_rating, min_popularity, max_popularity,
		total_movies, avg_rating, avg_popularity, date_range,
		decade_report, genre_report, rating_popularity_report, gaps_report, summary, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at`
	return r.db.QueryRow(query, a.ID, a.Name, a.AnalysisType, a.DateFrom, a.DateTo,
		a.MinRating, a.MaxRating, a.MinPopularity, a.MaxPopularity,
		a.TotalMovies, a.AvgRating, a.AvgPopularity, a.DateRange,
		a.DecadeReport, a.GenreReport, a.RatingPopularityReport, a.GapsReport, a.Summary, a.CreatedBy).
		Scan(&a.CreatedAt)
}

func scanAnalysis(row rowScanner) (*models.SavedAnalysis, error) {
	a := &models.SavedAnalysis{}
	err := row.Scan(&a.ID, &a.Name, &a.AnalysisType, &a.DateFrom, &a.DateTo,
		&a.MinRating, &a.MaxRating, &a.MinPopularity, &a.MaxPopularity,
		&a.TotalMovies, &a.AvgRating, &a.AvgPopularity, &a.DateRange,
		&a.DecadeReport, &a.GenreReport, &a.RatingPopularityReport, &a.GapsReport, &a.Summary,
		&a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AnalysisRepository) GetByID(id uuid.UUID) (*models.SavedAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM saved_analyses WHERE id = $1`
	a, err := scanAnalysis(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis not found")
	}
	return a, err
}

func (r *AnalysisRepository) List() ([]*models.SavedAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM saved_analyses ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.SavedAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

func (r *AnalysisRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM saved_analyses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("analysis not found")
	}
	return nil
}
