package repository

import (
	"database/sql"
	"fmt"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

const movieColumns = `m.id, m.tmdb_id, m.title, m.original_title, m.overview, m.release_date,
	m.popularity, m.vote_average, m.vote_count, m.poster_path, m.backdrop_path,
	m.director, m.director_id, m.age_category, m.popularity_category, m.recommendation_score,
	m.active, m.last_sync, m.created_at, m.updated_at`

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	m := &models.Movie{}
	err := row.Scan(&m.ID, &m.TMDBID, &m.Title, &m.OriginalTitle, &m.Overview, &m.ReleaseDate,
		&m.Popularity, &m.VoteAverage, &m.VoteCount, &m.PosterPath, &m.BackdropPath,
		&m.Director, &m.DirectorID, &m.AgeCategory, &m.PopularityCategory, &m.RecommendationScore,
		&m.Active, &m.LastSync, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MovieRepository) Create(m *models.Movie) error {
	query := `INSERT INTO movies (id, tmdb_id, title, original_title, overview, release_date,
		popularity, vote_average, vote_count, poster_path, backdrop_path,
		director, director_id, age_category, popularity_category, recommendation_score,
		active, last_sync)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query, m.ID, m.TMDBID, m.Title, m.OriginalTitle, m.Overview, m.ReleaseDate,
		m.Popularity, m.VoteAverage, m.VoteCount, m.PosterPath, m.BackdropPath,
		m.Director, m.DirectorID, m.AgeCategory, m.PopularityCategory, m.RecommendationScore,
		m.Active, m.LastSync).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *MovieRepository) Update(m *models.Movie) error {
	query := `UPDATE movies SET title=$1, original_title=$2, overview=$3, release_date=$4,
		popularity=$5, vote_average=$6, vote_count=$7, poster_path=$8, backdrop_path=$9,
		director=$10, director_id=$11, age_category=$12, popularity_category=$13,
		recommendation_score=$14, active=$15, last_sync=$16, updated_at=CURRENT_TIMESTAMP
		WHERE id=$17`
	result, err := r.db.Exec(query, m.Title, m.OriginalTitle, m.Overview, m.ReleaseDate,
		m.Popularity, m.VoteAverage, m.VoteCount, m.PosterPath, m.BackdropPath,
		m.Director, m.DirectorID, m.AgeCategory, m.PopularityCategory,
		m.RecommendationScore, m.Active, m.LastSync, m.ID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("movie not found")
	}
	return nil
}

func (r *MovieRepository) GetByID(id uuid.UUID) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.id = $1`
	m, err := scanMovie(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("movie not found")
	}
	if err != nil {
		return nil, err
	}
	return m, r.loadAssociations(m)
}

// GetByTMDBID returns nil, nil when no movie with the TMDB ID exists.
// When duplicate rows share the ID, the oldest wins.
func (r *MovieRepository) GetByTMDBID(tmdbID int) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.tmdb_id = $1
		ORDER BY m.created_at LIMIT 1`
	m, err := scanMovie(r.db.QueryRow(query, tmdbID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, r.loadAssociations(m)
}

// ListFilters narrows List results. Zero values mean "no constraint",
// except Active which is always applied.
type ListFilters struct {
	Title         string
	GenreID       uuid.UUID
	MinRating     float64
	MaxRating     float64
	MinPopularity float64
	MaxPopularity float64
	YearFrom      int
	YearTo        int
	Limit         int
	Offset        int
}

func (r *MovieRepository) List(f ListFilters) ([]*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.active = TRUE`
	var args []interface{}
	argIdx := 1

	add := func(clause string, value interface{}) {
		query += fmt.Sprintf(clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	if f.Title != "" {
		add(` AND m.title ILIKE $%d`, "%"+f.Title+"%")
	}
	if f.GenreID != uuid.Nil {
		add(` AND m.id IN (SELECT movie_id FROM movie_genres WHERE genre_id = $%d)`, f.GenreID)
	}
	if f.MinRating != 0 {
		add(` AND m.vote_average >= $%d`, f.MinRating)
	}
	if f.MaxRating != 0 {
		add(` AND m.vote_average <= $%d`, f.MaxRating)
	}
	if f.MinPopularity != 0 {
		add(` AND m.popularity >= $%d`, f.MinPopularity)
	}
	if f.MaxPopularity != 0 {
		add(` AND m.popularity <= $%d`, f.MaxPopularity)
	}
	if f.YearFrom != 0 {
		add(` AND m.release_date >= $%d`, fmt.Sprintf("%d-01-01", f.YearFrom))
	}
	if f.YearTo != 0 {
		add(` AND m.release_date <= $%d`, fmt.Sprintf("%d-12-31", f.YearTo))
	}

	query += ` ORDER BY m.title`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []*models.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ListActive returns all active movies with genre associations loaded.
// Used by duplicate detection and collection analysis, which both need
// the full active set.
func (r *MovieRepository) ListActive() ([]*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.active = TRUE ORDER BY m.created_at`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []*models.Movie
	byID := make(map[uuid.UUID]*models.Movie)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	genreRows, err := r.db.Query(`SELECT movie_id, genre_id FROM movie_genres`)
	if err != nil {
		return nil, err
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var movieID, genreID uuid.UUID
		if err := genreRows.Scan(&movieID, &genreID); err != nil {
			return nil, err
		}
		if m, ok := byID[movieID]; ok {
			m.GenreIDs = append(m.GenreIDs, genreID)
		}
	}
	return movies, genreRows.Err()
}

// TMDBIDSet returns the set of TMDB IDs already present locally.
func (r *MovieRepository) TMDBIDSet() (map[int]bool, error) {
	rows, err := r.db.Query(`SELECT tmdb_id FROM movies`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, rows.Err()
}

// SetGenres replaces the movie's genre associations.
func (r *MovieRepository) SetGenres(movieID uuid.UUID, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM movie_genres WHERE movie_id = $1`, movieID); err != nil {
		return err
	}
	for _, gid := range genreIDs {
		if _, err := tx.Exec(`INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, movieID, gid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SetActors replaces the movie's cast, keeping the given billing order.
func (r *MovieRepository) SetActors(movieID uuid.UUID, actorIDs []uuid.UUID) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM movie_actors WHERE movie_id = $1`, movieID); err != nil {
		return err
	}
	for i, pid := range actorIDs {
		if _, err := tx.Exec(`INSERT INTO movie_actors (movie_id, person_id, cast_rank) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING`, movieID, pid, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *MovieRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("movie not found")
	}
	return nil
}

func (r *MovieRepository) loadAssociations(m *models.Movie) error {
	rows, err := r.db.Query(`SELECT genre_id FROM movie_genres WHERE movie_id = $1`, m.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var gid uuid.UUID
		if err := rows.Scan(&gid); err != nil {
			return err
		}
		m.GenreIDs = append(m.GenreIDs, gid)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	actorRows, err := r.db.Query(`SELECT person_id FROM movie_actors WHERE movie_id = $1 ORDER BY cast_rank`, m.ID)
	if err != nil {
		return err
	}
	defer actorRows.Close()
	for actorRows.Next() {
		var pid uuid.UUID
		if err := actorRows.Scan(&pid); err != nil {
			return err
		}
		m.ActorIDs = append(m.ActorIDs, pid)
	}
	return actorRows.Err()
}
