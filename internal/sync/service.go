package sync

import (
	"github.com/cinedex/cinedex/internal/models"
	"github.com/cinedex/cinedex/internal/tmdb"
	"github.com/google/uuid"
)

// Catalog is the TMDB surface the sync service depends on.
type Catalog interface {
	MovieDetails(tmdbID int) (*tmdb.Movie, error)
	MovieCredits(tmdbID int) (*tmdb.Credits, error)
	GenreList() ([]tmdb.Genre, error)
	Popular(page int) (*tmdb.Page, error)
	Discover(page int, filters tmdb.Filters) (*tmdb.Page, error)
	Search(query string, page int) (*tmdb.Page, error)
	ProfileImage(profilePath string) ([]byte, error)
}

type MovieStore interface {
	GetByID(id uuid.UUID) (*models.Movie, error)
	GetByTMDBID(tmdbID int) (*models.Movie, error)
	Create(m *models.Movie) error
	Update(m *models.Movie) error
	SetGenres(movieID uuid.UUID, genreIDs []uuid.UUID) error
	SetActors(movieID uuid.UUID, actorIDs []uuid.UUID) error
	TMDBIDSet() (map[int]bool, error)
}

type GenreStore interface {
	GetByTMDBID(tmdbGenreID int) (*models.Genre, error)
	Create(g *models.Genre) error
	Update(g *models.Genre) error
}

type PersonStore interface {
	FindByNameAndRole(name, role string) (*models.Person, error)
	Create(p *models.Person) error
	UpdatePhoto(id uuid.UUID, profilePath string, photo []byte) error
	ListMissingPhotos() ([]*models.Person, error)
}

// Service reconciles local movie, genre and contact records against TMDB.
type Service struct {
	catalog Catalog
	movies  MovieStore
	genres  GenreStore
	people  PersonStore
}

func NewService(catalog Catalog, movies MovieStore, genres GenreStore, people PersonStore) *Service {
	return &Service{
		catalog: catalog,
		movies:  movies,
		genres:  genres,
		people:  people,
	}
}
