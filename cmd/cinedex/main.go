package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cinedex/cinedex/internal/api"
	"github.com/cinedex/cinedex/internal/auth"
	"github.com/cinedex/cinedex/internal/config"
	"github.com/cinedex/cinedex/internal/db"
	"github.com/cinedex/cinedex/internal/jobs"
	"github.com/cinedex/cinedex/internal/models"
	"github.com/cinedex/cinedex/internal/repository"
	"github.com/cinedex/cinedex/internal/tmdb"
	"github.com/cinedex/cinedex/internal/version"
	"github.com/google/uuid"
)

func main() {
	ver := version.Load("")
	log.Printf("%s starting...", ver)

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, "migrations"); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	cfg.MergeFromDB(database.DB)
	if cfg.TMDBAPIKey == "" {
		log.Println("warning: no TMDB API key configured, sync operations will fail until one is set")
	}

	if err := ensureAdminUser(database, cfg); err != nil {
		log.Fatalf("admin user setup failed: %v", err)
	}

	tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.TMDBLanguage)

	jobQueue := jobs.NewQueue(cfg.RedisAddr)
	defer jobQueue.Stop()

	srv := api.NewServer(cfg, database, tmdbClient, jobQueue)

	jobs.NewSyncHandlers(srv.SyncService()).Register(jobQueue)
	go func() {
		if err := jobQueue.Start(); err != nil {
			log.Printf("job queue unavailable: %v", err)
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}

// ensureAdminUser creates the initial admin account on first boot when
// ADMIN_PASSWORD is set. An existing account is left alone.
func ensureAdminUser(database *db.DB, cfg *config.Config) error {
	users := repository.NewUserRepository(database.DB)
	existing, err := users.GetByUsername(cfg.AdminUser)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if cfg.AdminPassword == "" {
		log.Println("warning: no admin user exists and ADMIN_PASSWORD is not set")
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:           uuid.New(),
		Username:     cfg.AdminUser,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := users.Create(user); err != nil {
		return err
	}
	log.Printf("created admin user %q", cfg.AdminUser)
	return nil
}
