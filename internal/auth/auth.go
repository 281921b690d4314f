package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func IsTokenExpired(exp int64) bool {
	return time.Now().Unix() > exp
}

// CreateSession stores a fresh token for the user and returns it.
func CreateSession(db *sql.DB, userID string, isAdmin bool, ttl time.Duration) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	exp := time.Now().Add(ttl).Unix()
	_, err = db.Exec(`INSERT INTO sessions (token, user_id, is_admin, expires_at) VALUES ($1, $2, $3, $4)`,
		token, userID, isAdmin, exp)
	if err != nil {
		return "", err
	}
	return token, nil
}

// DeleteSession removes the token. Missing tokens are not an error.
func DeleteSession(db *sql.DB, token string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	return err
}
