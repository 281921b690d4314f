package repository

import (
	"database/sql"
	"fmt"

	"github.com/cinedex/cinedex/internal/models"
)

type GenreRepository struct {
	db *sql.DB
}

func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Create(g *models.Genre) error {
	query := `INSERT INTO genres (id, tmdb_genre_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query, g.ID, g.TMDBGenreID, g.Name, g.Description).
		Scan(&g.CreatedAt, &g.UpdatedAt)
}

func (r *GenreRepository) Update(g *models.Genre) error {
	query := `UPDATE genres SET name=$1, description=$2, updated_at=CURRENT_TIMESTAMP WHERE id=$3`
	result, err := r.db.Exec(query, g.Name, g.Description, g.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("genre not found")
	}
	return nil
}

// GetByTMDBID returns nil, nil when no genre with the TMDB genre ID exists.
func (r *GenreRepository) GetByTMDBID(tmdbGenreID int) (*models.Genre, error) {
	g := &models.Genre{}
	query := `SELECT id, tmdb_genre_id, name, description, created_at, updated_at
		FROM genres WHERE tmdb_genre_id = $1`
	err := r.db.QueryRow(query, tmdbGenreID).
		Scan(&g.ID, &g.TMDBGenreID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GenreRepository) List() ([]*models.Genre, error) {
	rows, err := r.db.Query(`SELECT id, tmdb_genre_id, name, description, created_at, updated_at
		FROM genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []*models.Genre
	for rows.Next() {
		g := &models.Genre{}
		if err := rows.Scan(&g.ID, &g.TMDBGenreID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
