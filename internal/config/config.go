package config

import (
	"database/sql"
	"log"
	"os"
	"strconv"
)

// Settings keys mirrored into the settings table. Values stored there win
// over environment defaults, so the API key can be managed at runtime.
const (
	SettingTMDBAPIKey  = "tmdb_api_key"
	SettingTMDBBaseURL = "tmdb_base_url"
)

const DefaultTMDBBaseURL = "https://api.themoviedb.org/3"

type Config struct {
	Port           int
	DatabaseURL    string
	RedisAddr      string
	TMDBAPIKey     string
	TMDBBaseURL    string
	TMDBLanguage   string
	AdminUser      string
	AdminPassword  string
	SessionTTLDays int
}

func Load() *Config {
	return &Config{
		Port:           envInt("PORT", 8080),
		DatabaseURL:    env("DATABASE_URL", "postgres://cinedex:cinedex@db:5432/cinedex?sslmode=disable"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		TMDBAPIKey:     env("TMDB_API_KEY", ""),
		TMDBBaseURL:    env("TMDB_BASE_URL", DefaultTMDBBaseURL),
		TMDBLanguage:   env("TMDB_LANGUAGE", "en-US"),
		AdminUser:      env("ADMIN_USER", "admin"),
		AdminPassword:  env("ADMIN_PASSWORD", ""),
		SessionTTLDays: envInt("SESSION_TTL_DAYS", 7),
	}
}

// MergeFromDB overlays values from the settings table onto the config.
// Missing table or rows are not an error; env defaults remain in effect.
func (c *Config) MergeFromDB(db *sql.DB) {
	rows, err := db.Query("SELECT key, value FROM settings")
	if err != nil {
		log.Printf("config: skipping DB merge: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case SettingTMDBAPIKey:
			if value != "" {
				c.TMDBAPIKey = value
			}
		case SettingTMDBBaseURL:
			if value != "" {
				c.TMDBBaseURL = value
			}
		}
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
