package repository

import (
	"database/sql"
	"fmt"

	"github.com/cinedex/cinedex/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	query := `INSERT INTO users (id, username, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	return r.db.QueryRow(query, u.ID, u.Username, u.PasswordHash, u.IsAdmin).
		Scan(&u.CreatedAt)
}

// GetByUsername returns nil, nil when no such user exists.
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT id, username, password_hash, is_admin, created_at
		FROM users WHERE username = $1`
	err := r.db.QueryRow(query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) UpdatePassword(username, passwordHash string) error {
	result, err := r.db.Exec(`UPDATE users SET password_hash=$1 WHERE username=$2`,
		passwordHash, username)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}
