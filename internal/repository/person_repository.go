package repository

import (
	"database/sql"
	"fmt"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

type PersonRepository struct {
	db *sql.DB
}

func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

const personColumns = `id, name, is_director, is_actor, job_title, profile_path,
	photo IS NOT NULL, created_at, updated_at`

func (r *PersonRepository) Create(p *models.Person) error {
	query := `INSERT INTO people (id, name, is_director, is_actor, job_title, profile_path, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(query, p.ID, p.Name, p.IsDirector, p.IsActor,
		p.JobTitle, p.ProfilePath, p.Photo).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// FindByNameAndRole matches on exact name plus the role flag. Returns
// nil, nil when no such contact exists.
func (r *PersonRepository) FindByNameAndRole(name, role string) (*models.Person, error) {
	roleColumn, err := roleFlagColumn(role)
	if err != nil {
		return nil, err
	}
	p := &models.Person{}
	query := `SELECT ` + personColumns + ` FROM people
		WHERE name = $1 AND ` + roleColumn + ` = TRUE LIMIT 1`
	err = r.db.QueryRow(query, name).
		Scan(&p.ID, &p.Name, &p.IsDirector, &p.IsActor, &p.JobTitle, &p.ProfilePath,
			&p.HasPhoto, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PersonRepository) GetByID(id uuid.UUID) (*models.Person, error) {
	p := &models.Person{}
	query := `SELECT ` + personColumns + ` FROM people WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&p.ID, &p.Name, &p.IsDirector, &p.IsActor, &p.JobTitle, &p.ProfilePath,
			&p.HasPhoto, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("person not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PersonRepository) List(role string, limit, offset int) ([]*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people`
	var args []interface{}
	argIdx := 1

	if role != "" {
		roleColumn, err := roleFlagColumn(role)
		if err != nil {
			return nil, err
		}
		query += ` WHERE ` + roleColumn + ` = TRUE`
	}
	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		p := &models.Person{}
		if err := rows.Scan(&p.ID, &p.Name, &p.IsDirector, &p.IsActor, &p.JobTitle,
			&p.ProfilePath, &p.HasPhoto, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// UpdatePhoto stores the image bytes and remembers the source path.
func (r *PersonRepository) UpdatePhoto(id uuid.UUID, profilePath string, photo []byte) error {
	result, err := r.db.Exec(`UPDATE people SET profile_path=$1, photo=$2, updated_at=CURRENT_TIMESTAMP
		WHERE id=$3`, profilePath, photo, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("person not found")
	}
	return nil
}

// GetPhoto returns the raw image bytes, or nil, nil when none stored.
func (r *PersonRepository) GetPhoto(id uuid.UUID) ([]byte, error) {
	var photo []byte
	err := r.db.QueryRow(`SELECT photo FROM people WHERE id = $1`, id).Scan(&photo)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("person not found")
	}
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// ListMissingPhotos returns contacts that have a TMDB profile path on
// record but no image bytes stored yet.
func (r *PersonRepository) ListMissingPhotos() ([]*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people
		WHERE profile_path IS NOT NULL AND profile_path <> '' AND photo IS NULL
		ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		p := &models.Person{}
		if err := rows.Scan(&p.ID, &p.Name, &p.IsDirector, &p.IsActor, &p.JobTitle,
			&p.ProfilePath, &p.HasPhoto, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func roleFlagColumn(role string) (string, error) {
	switch role {
	case models.RoleDirector:
		return "is_director", nil
	case models.RoleActor:
		return "is_actor", nil
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}
}
