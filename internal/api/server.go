package api

import (
	"net/http"

	"github.com/cinedex/cinedex/internal/analysis"
	"github.com/cinedex/cinedex/internal/auth"
	"github.com/cinedex/cinedex/internal/cleanup"
	"github.com/cinedex/cinedex/internal/config"
	"github.com/cinedex/cinedex/internal/db"
	"github.com/cinedex/cinedex/internal/jobs"
	"github.com/cinedex/cinedex/internal/repository"
	"github.com/cinedex/cinedex/internal/sync"
	"github.com/cinedex/cinedex/internal/tmdb"
)

type Server struct {
	config       *config.Config
	db           *db.DB
	tmdb         *tmdb.Client
	userRepo     *repository.UserRepository
	movieRepo    *repository.MovieRepository
	genreRepo    *repository.GenreRepository
	personRepo   *repository.PersonRepository
	settingsRepo *repository.SettingsRepository
	analysisRepo *repository.AnalysisRepository
	syncSvc      *sync.Service
	cleanup      *cleanup.Session
	analyzer     *analysis.Analyzer
	jobQueue     *jobs.Queue
	middleware   *auth.Middleware
	router       *http.ServeMux
}

func NewServer(cfg *config.Config, database *db.DB, tmdbClient *tmdb.Client, jobQueue *jobs.Queue) *Server {
	movieRepo := repository.NewMovieRepository(database.DB)
	genreRepo := repository.NewGenreRepository(database.DB)
	personRepo := repository.NewPersonRepository(database.DB)
	analysisRepo := repository.NewAnalysisRepository(database.DB)

	s := &Server{
		config:       cfg,
		db:           database,
		tmdb:         tmdbClient,
		userRepo:     repository.NewUserRepository(database.DB),
		movieRepo:    movieRepo,
		genreRepo:    genreRepo,
		personRepo:   personRepo,
		settingsRepo: repository.NewSettingsRepository(database.DB),
		analysisRepo: analysisRepo,
		syncSvc:      sync.NewService(tmdbClient, movieRepo, genreRepo, personRepo),
		cleanup:      cleanup.NewSession(movieRepo),
		analyzer:     analysis.NewAnalyzer(movieRepo, genreRepo, analysisRepo),
		jobQueue:     jobQueue,
		middleware:   auth.NewMiddleware(database.DB),
		router:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// SyncService is exposed so job handlers can share the same wiring.
func (s *Server) SyncService() *sync.Service {
	return s.syncSvc
}

func (s *Server) setupRoutes() {
	// Public
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("POST /api/auth/login", s.handleLogin)

	// Authenticated
	s.router.Handle("POST /api/auth/logout", s.protected(s.handleLogout))

	s.router.Handle("GET /api/movies", s.protected(s.handleListMovies))
	s.router.Handle("GET /api/movies/{id}", s.protected(s.handleGetMovie))
	s.router.Handle("DELETE /api/movies/{id}", s.protected(s.handleDeleteMovie))
	s.router.Handle("POST /api/movies/{id}/sync", s.protected(s.handleResyncMovie))
	s.router.Handle("POST /api/movies/{id}/director", s.protected(s.handleUpdateDirector))

	s.router.Handle("GET /api/genres", s.protected(s.handleListGenres))
	s.router.Handle("GET /api/people", s.protected(s.handleListPeople))
	s.router.Handle("GET /api/people/{id}", s.protected(s.handleGetPerson))
	s.router.Handle("GET /api/people/{id}/photo", s.protected(s.handleGetPersonPhoto))

	s.router.Handle("POST /api/sync/movie", s.protected(s.handleSyncMovie))
	s.router.Handle("POST /api/sync/popular", s.protected(s.handleSyncPopular))
	s.router.Handle("POST /api/sync/search", s.protected(s.handleSyncSearch))
	s.router.Handle("POST /api/sync/genres", s.protected(s.handleSyncGenres))
	s.router.Handle("POST /api/sync/preview", s.protected(s.handleSyncPreview))
	s.router.Handle("POST /api/sync/contacts", s.protected(s.handleSyncContacts))

	s.router.Handle("POST /api/cleanup/detect", s.protected(s.handleCleanupDetect))
	s.router.Handle("GET /api/cleanup/groups", s.protected(s.handleCleanupGroups))
	s.router.Handle("POST /api/cleanup/keep", s.protected(s.handleCleanupKeep))
	s.router.Handle("POST /api/cleanup/merge", s.protected(s.handleCleanupMerge))
	s.router.Handle("POST /api/cleanup/delete", s.protected(s.handleCleanupDelete))

	s.router.Handle("POST /api/analysis/run", s.protected(s.handleAnalysisRun))
	s.router.Handle("POST /api/analysis/save", s.protected(s.handleAnalysisSave))
	s.router.Handle("GET /api/analyses", s.protected(s.handleListAnalyses))
	s.router.Handle("GET /api/analyses/{id}", s.protected(s.handleGetAnalysis))
	s.router.Handle("DELETE /api/analyses/{id}", s.protected(s.handleDeleteAnalysis))

	// Admin
	s.router.Handle("GET /api/settings", s.admin(s.handleGetSettings))
	s.router.Handle("PUT /api/settings", s.admin(s.handlePutSettings))
	s.router.Handle("POST /api/cleanup/seed", s.admin(s.handleCleanupSeed))
}

func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.middleware.RequireAuth(h)
}

func (s *Server) admin(h http.HandlerFunc) http.Handler {
	return s.middleware.RequireAuth(s.middleware.RequireAdmin(h))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
