package sync

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/cinedex/cinedex/internal/tmdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	movies     map[int]*tmdb.Movie
	credits    map[int]*tmdb.Credits
	creditsErr map[int]error
	genres     []tmdb.Genre
	pages      []*tmdb.Page
	images     map[string][]byte
	imageErr   error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		movies:     make(map[int]*tmdb.Movie),
		credits:    make(map[int]*tmdb.Credits),
		creditsErr: make(map[int]error),
		images:     make(map[string][]byte),
	}
}

func (c *fakeCatalog) MovieDetails(tmdbID int) (*tmdb.Movie, error) {
	m, ok := c.movies[tmdbID]
	if !ok {
		return nil, fmt.Errorf("TMDB API returned status 404")
	}
	return m, nil
}

func (c *fakeCatalog) MovieCredits(tmdbID int) (*tmdb.Credits, error) {
	if err := c.creditsErr[tmdbID]; err != nil {
		return nil, err
	}
	cr, ok := c.credits[tmdbID]
	if !ok {
		return &tmdb.Credits{ID: tmdbID}, nil
	}
	return cr, nil
}

func (c *fakeCatalog) GenreList() ([]tmdb.Genre, error) {
	return c.genres, nil
}

func (c *fakeCatalog) page(n int) (*tmdb.Page, error) {
	if n < 1 || n > len(c.pages) {
		return &tmdb.Page{Page: n, TotalPages: len(c.pages)}, nil
	}
	p := *c.pages[n-1]
	p.Page = n
	p.TotalPages = len(c.pages)
	return &p, nil
}

func (c *fakeCatalog) Popular(page int) (*tmdb.Page, error) { return c.page(page) }

func (c *fakeCatalog) Discover(page int, _ tmdb.Filters) (*tmdb.Page, error) { return c.page(page) }

func (c *fakeCatalog) Search(_ string, page int) (*tmdb.Page, error) { return c.page(page) }

func (c *fakeCatalog) ProfileImage(profilePath string) ([]byte, error) {
	if c.imageErr != nil {
		return nil, c.imageErr
	}
	img, ok := c.images[profilePath]
	if !ok {
		return nil, fmt.Errorf("TMDB image returned status 404")
	}
	return img, nil
}

type fakeMovieStore struct {
	movies map[uuid.UUID]*models.Movie
	genres map[uuid.UUID][]uuid.UUID
	actors map[uuid.UUID][]uuid.UUID
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{
		movies: make(map[uuid.UUID]*models.Movie),
		genres: make(map[uuid.UUID][]uuid.UUID),
		actors: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *fakeMovieStore) GetByID(id uuid.UUID) (*models.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, fmt.Errorf("movie not found")
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMovieStore) GetByTMDBID(tmdbID int) (*models.Movie, error) {
	for _, m := range s.movies {
		if m.TMDBID == tmdbID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeMovieStore) Create(m *models.Movie) error {
	cp := *m
	s.movies[m.ID] = &cp
	return nil
}

func (s *fakeMovieStore) Update(m *models.Movie) error {
	if _, ok := s.movies[m.ID]; !ok {
		return fmt.Errorf("movie not found")
	}
	cp := *m
	s.movies[m.ID] = &cp
	return nil
}

func (s *fakeMovieStore) SetGenres(movieID uuid.UUID, genreIDs []uuid.UUID) error {
	s.genres[movieID] = genreIDs
	return nil
}

func (s *fakeMovieStore) SetActors(movieID uuid.UUID, actorIDs []uuid.UUID) error {
	s.actors[movieID] = actorIDs
	return nil
}

func (s *fakeMovieStore) TMDBIDSet() (map[int]bool, error) {
	set := make(map[int]bool)
	for _, m := range s.movies {
		set[m.TMDBID] = true
	}
	return set, nil
}

type fakeGenreStore struct {
	genres map[int]*models.Genre
}

func newFakeGenreStore() *fakeGenreStore {
	return &fakeGenreStore{genres: make(map[int]*models.Genre)}
}

func (s *fakeGenreStore) GetByTMDBID(tmdbGenreID int) (*models.Genre, error) {
	g, ok := s.genres[tmdbGenreID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (s *fakeGenreStore) Create(g *models.Genre) error {
	cp := *g
	s.genres[g.TMDBGenreID] = &cp
	return nil
}

func (s *fakeGenreStore) Update(g *models.Genre) error {
	cp := *g
	s.genres[g.TMDBGenreID] = &cp
	return nil
}

type fakePersonStore struct {
	people map[uuid.UUID]*models.Person
	photos map[uuid.UUID][]byte
}

func newFakePersonStore() *fakePersonStore {
	return &fakePersonStore{
		people: make(map[uuid.UUID]*models.Person),
		photos: make(map[uuid.UUID][]byte),
	}
}

func (s *fakePersonStore) FindByNameAndRole(name, role string) (*models.Person, error) {
	for _, p := range s.people {
		if p.Name != name {
			continue
		}
		if (role == models.RoleDirector && p.IsDirector) || (role == models.RoleActor && p.IsActor) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakePersonStore) Create(p *models.Person) error {
	cp := *p
	s.people[p.ID] = &cp
	return nil
}

func (s *fakePersonStore) UpdatePhoto(id uuid.UUID, profilePath string, photo []byte) error {
	p, ok := s.people[id]
	if !ok {
		return fmt.Errorf("person not found")
	}
	p.ProfilePath = &profilePath
	p.HasPhoto = true
	s.photos[id] = photo
	return nil
}

func (s *fakePersonStore) ListMissingPhotos() ([]*models.Person, error) {
	var missing []*models.Person
	for _, p := range s.people {
		if p.ProfilePath != nil && *p.ProfilePath != "" && !p.HasPhoto {
			cp := *p
			missing = append(missing, &cp)
		}
	}
	return missing, nil
}

func newTestService() (*Service, *fakeCatalog, *fakeMovieStore, *fakeGenreStore, *fakePersonStore) {
	catalog := newFakeCatalog()
	movies := newFakeMovieStore()
	genres := newFakeGenreStore()
	people := newFakePersonStore()
	return NewService(catalog, movies, genres, people), catalog, movies, genres, people
}

func stubMovie(catalog *fakeCatalog, tmdbID int, title string) {
	catalog.movies[tmdbID] = &tmdb.Movie{
		ID:          tmdbID,
		Title:       title,
		ReleaseDate: "1962-10-05",
		Popularity:  300,
		VoteAverage: 8.2,
		VoteCount:   24000,
		Genres:      []tmdb.Genre{{ID: 28, Name: "Action"}},
	}
}

func TestSyncAllGenres(t *testing.T) {
	svc, catalog, _, genres, _ := newTestService()
	catalog.genres = []tmdb.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}
	genres.Create(&models.Genre{ID: uuid.New(), TMDBGenreID: 28, Name: "Old Action Name"})

	result, err := svc.SyncAllGenres()
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 2, result.Total)

	g, _ := genres.GetByTMDBID(28)
	assert.Equal(t, "Action", g.Name)
}

func TestSyncNewGenresSkipsExisting(t *testing.T) {
	svc, catalog, _, genres, _ := newTestService()
	catalog.genres = []tmdb.Genre{
		{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}, {ID: 18, Name: "Drama"},
		{ID: 27, Name: "Horror"}, {ID: 878, Name: "Science Fiction"},
	}
	genres.Create(&models.Genre{ID: uuid.New(), TMDBGenreID: 28, Name: "Action"})
	genres.Create(&models.Genre{ID: uuid.New(), TMDBGenreID: 35, Name: "Funny Business"})

	result, err := svc.SyncNewGenres()
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 5, result.Total)

	g, _ := genres.GetByTMDBID(35)
	assert.Equal(t, "Funny Business", g.Name, "existing genres must not be modified")
}

func TestResolvePersonFindOrCreate(t *testing.T) {
	svc, _, _, _, people := newTestService()

	p1, err := svc.ResolvePerson("Lana Wachowski", models.RoleDirector, "")
	require.NoError(t, err)
	require.NotNil(t, p1)
	assert.True(t, p1.IsDirector)
	require.NotNil(t, p1.JobTitle)
	assert.Equal(t, "Film Director", *p1.JobTitle)

	p2, err := svc.ResolvePerson("Lana Wachowski", models.RoleDirector, "")
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID, "same name and role must resolve to one contact")
	assert.Len(t, people.people, 1)
}

func TestResolvePersonRolesAreSeparate(t *testing.T) {
	svc, _, _, _, people := newTestService()

	director, err := svc.ResolvePerson("Clint Eastwood", models.RoleDirector, "")
	require.NoError(t, err)
	actor, err := svc.ResolvePerson("Clint Eastwood", models.RoleActor, "")
	require.NoError(t, err)

	assert.NotEqual(t, director.ID, actor.ID)
	assert.Len(t, people.people, 2)
}

func TestResolvePersonBlankName(t *testing.T) {
	svc, _, _, _, people := newTestService()

	p, err := svc.ResolvePerson("   ", models.RoleActor, "")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Empty(t, people.people)
}

func TestResolvePersonImageBackfill(t *testing.T) {
	svc, catalog, _, _, people := newTestService()
	catalog.imageErr = errors.New("connection refused")

	p1, err := svc.ResolvePerson("Keanu Reeves", models.RoleActor, "/kr.jpg")
	require.NoError(t, err, "image failure must not fail resolution")
	assert.False(t, p1.HasPhoto)

	catalog.imageErr = nil
	catalog.images["/kr.jpg"] = []byte("jpeg bytes")

	p2, err := svc.ResolvePerson("Keanu Reeves", models.RoleActor, "/kr.jpg")
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)
	assert.True(t, p2.HasPhoto, "image must be backfilled once available")
	assert.Equal(t, []byte("jpeg bytes"), people.photos[p1.ID])
}

func TestSyncAllContacts(t *testing.T) {
	svc, catalog, _, _, people := newTestService()
	path1, path2 := "/a.jpg", "/b.jpg"
	people.Create(&models.Person{ID: uuid.New(), Name: "A", IsActor: true, ProfilePath: &path1})
	people.Create(&models.Person{ID: uuid.New(), Name: "B", IsActor: true, ProfilePath: &path2})
	catalog.images["/a.jpg"] = []byte("a")

	result, err := svc.SyncAllContacts()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Failed)
}

func TestSyncMovieCreatesWithCreditsAndGenres(t *testing.T) {
	svc, catalog, movies, genres, _ := newTestService()
	stubMovie(catalog, 603, "The Matrix")
	catalog.credits[603] = &tmdb.Credits{
		Cast: []tmdb.CastMember{
			{Name: "Keanu Reeves", Popularity: 40},
			{Name: "Carrie-Anne Moss", Popularity: 20},
			{Name: "Laurence Fishburne", Popularity: 30},
			{Name: "Hugo Weaving", Popularity: 25},
			{Name: "Joe Pantoliano", Popularity: 10},
			{Name: "Gloria Foster", Popularity: 8},
			{Name: "Marcus Chong", Popularity: 5},
		},
		Crew: []tmdb.CrewMember{
			{Name: "Joel Silver", Job: "Producer"},
			{Name: "Lana Wachowski", Job: "Director"},
			{Name: "Lilly Wachowski", Job: "Director"},
		},
	}

	movie, err := svc.SyncMovie(603)
	require.NoError(t, err)

	assert.Equal(t, "The Matrix", movie.Title)
	require.NotNil(t, movie.Director)
	assert.Equal(t, "Lana Wachowski", *movie.Director, "first credited director wins")
	require.NotNil(t, movie.LastSync)
	require.NotNil(t, movie.AgeCategory)
	assert.Equal(t, models.AgeClassic, *movie.AgeCategory)
	require.NotNil(t, movie.PopularityCategory)
	assert.Equal(t, models.PopularityHigh, *movie.PopularityCategory)
	assert.InDelta(t, 11.2, movie.RecommendationScore, 0.001)

	assert.Len(t, movies.actors[movie.ID], 5, "cast capped at the five most popular")
	assert.Len(t, movies.genres[movie.ID], 1)

	g, _ := genres.GetByTMDBID(28)
	require.NotNil(t, g, "genres referenced by a movie are created inline")
	assert.Equal(t, "Action", g.Name)
}

func TestSyncMovieIsIdempotent(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()
	stubMovie(catalog, 603, "The Matrix")

	first, err := svc.SyncMovie(603)
	require.NoError(t, err)

	catalog.movies[603].VoteAverage = 8.3
	second, err := svc.SyncMovie(603)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-sync must update in place, keyed by TMDB ID")
	assert.Len(t, movies.movies, 1)
	assert.Equal(t, 8.3, second.VoteAverage)
}

func TestSyncMovieCreditsFailureDegrades(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()
	stubMovie(catalog, 603, "The Matrix")
	catalog.credits[603] = &tmdb.Credits{
		Cast: []tmdb.CastMember{{Name: "Keanu Reeves", Popularity: 40}},
		Crew: []tmdb.CrewMember{{Name: "Lana Wachowski", Job: "Director"}},
	}

	first, err := svc.SyncMovie(603)
	require.NoError(t, err)
	require.Len(t, movies.actors[first.ID], 1)

	catalog.creditsErr[603] = errors.New("TMDB API returned status 500")
	second, err := svc.SyncMovie(603)
	require.NoError(t, err, "credits failure must not fail the sync")

	assert.Len(t, movies.actors[second.ID], 1, "existing cast kept when credits are unavailable")
	stored, _ := movies.GetByID(second.ID)
	require.NotNil(t, stored.Director, "existing director kept when credits are unavailable")
}

func TestSyncMovieRejectsFutureReleaseDate(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()
	stubMovie(catalog, 900, "Not Yet Released")
	catalog.movies[900].ReleaseDate = "2099-01-01"

	_, err := svc.SyncMovie(900)
	require.Error(t, err)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "release_date", verr.Field)
	assert.Empty(t, movies.movies, "invalid movies must not be written")
}

func TestUpdateDirector(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()
	stubMovie(catalog, 603, "The Matrix")

	movie, err := svc.SyncMovie(603)
	require.NoError(t, err)
	assert.Nil(t, movie.Director)

	catalog.credits[603] = &tmdb.Credits{
		Crew: []tmdb.CrewMember{{Name: "Lana Wachowski", Job: "Director"}},
	}
	updated, err := svc.UpdateDirector(movie.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Director)
	assert.Equal(t, "Lana Wachowski", *updated.Director)

	stored, _ := movies.GetByID(movie.ID)
	require.NotNil(t, stored.DirectorID)
}

func TestSyncPopularCountsFailures(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()

	broken := map[int]bool{5: true, 11: true, 17: true}
	var results []tmdb.MovieSummary
	for i := 1; i <= 20; i++ {
		results = append(results, tmdb.MovieSummary{ID: i, Title: fmt.Sprintf("Movie %d", i)})
		if !broken[i] {
			stubMovie(catalog, i, fmt.Sprintf("Movie %d", i))
		}
	}
	catalog.pages = []*tmdb.Page{{Results: results}}

	result, err := svc.SyncPopular(1, 20, tmdb.Filters{})
	require.NoError(t, err)

	assert.Equal(t, 17, result.Synced)
	assert.Equal(t, 3, result.Failed)
	assert.Len(t, result.Errors, 3)
	assert.Len(t, movies.movies, 17)
}

func TestSyncPopularStaysOnRequestedPage(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()

	var pageOne, pageTwo []tmdb.MovieSummary
	for i := 1; i <= 10; i++ {
		pageOne = append(pageOne, tmdb.MovieSummary{ID: i, Title: fmt.Sprintf("Movie %d", i)})
		if i != 5 {
			stubMovie(catalog, i, fmt.Sprintf("Movie %d", i))
		}
	}
	for i := 11; i <= 20; i++ {
		pageTwo = append(pageTwo, tmdb.MovieSummary{ID: i, Title: fmt.Sprintf("Movie %d", i)})
		stubMovie(catalog, i, fmt.Sprintf("Movie %d", i))
	}
	catalog.pages = []*tmdb.Page{{Results: pageOne}, {Results: pageTwo}}

	// A limit above the page size must not spill into the next page,
	// even with a failure on the requested one.
	result, err := svc.SyncPopular(1, 20, tmdb.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 9, result.Synced)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, movies.movies, 9)

	result, err = svc.SyncPopular(2, 20, tmdb.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 10, result.Synced)
	assert.Len(t, movies.movies, 19)
}

func TestSyncPopularHonorsLimit(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()

	var results []tmdb.MovieSummary
	for i := 1; i <= 10; i++ {
		results = append(results, tmdb.MovieSummary{ID: i, Title: fmt.Sprintf("Movie %d", i)})
		stubMovie(catalog, i, fmt.Sprintf("Movie %d", i))
	}
	catalog.pages = []*tmdb.Page{{Results: results}}

	result, err := svc.SyncPopular(1, 3, tmdb.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Synced)
	assert.Len(t, movies.movies, 3)
}

func TestSearchAndSyncAppliesFilters(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()
	stubMovie(catalog, 1, "Hit")
	stubMovie(catalog, 2, "Miss")
	catalog.pages = []*tmdb.Page{{Results: []tmdb.MovieSummary{
		{ID: 1, Title: "Hit", Popularity: 300, VoteAverage: 8.0, ReleaseDate: "1999-01-01"},
		{ID: 2, Title: "Miss", Popularity: 50, VoteAverage: 8.0, ReleaseDate: "1999-01-01"},
	}}}

	result, err := svc.SearchAndSync("matrix", 1, 10, tmdb.Filters{MinPopularity: 100})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Len(t, movies.movies, 1)
}

func TestPreviewFlagsExistingMovies(t *testing.T) {
	svc, catalog, movies, _, _ := newTestService()
	movies.Create(&models.Movie{ID: uuid.New(), TMDBID: 603, Title: "The Matrix", Active: true})
	catalog.pages = []*tmdb.Page{{Results: []tmdb.MovieSummary{
		{ID: 603, Title: "The Matrix", Popularity: 85, ReleaseDate: "1999-03-31"},
		{ID: 604, Title: "The Matrix Reloaded", Popularity: 60, ReleaseDate: "2003-05-15"},
	}}}

	items, err := svc.Preview("matrix", 0, tmdb.Filters{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].ExistsLocally)
	assert.False(t, items[1].ExistsLocally)
}

func TestPreviewYearFilter(t *testing.T) {
	svc, catalog, _, _, _ := newTestService()
	catalog.pages = []*tmdb.Page{{Results: []tmdb.MovieSummary{
		{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31"},
		{ID: 604, Title: "The Matrix Reloaded", ReleaseDate: "2003-05-15"},
		{ID: 605, Title: "Undated"},
	}}}

	items, err := svc.Preview("matrix", 0, tmdb.Filters{YearFrom: 2000, YearTo: 2010})
	require.NoError(t, err)
	require.Len(t, items, 2, "entries without a release date pass year filters")
	assert.Equal(t, 604, items[0].TMDBID)
	assert.Equal(t, 605, items[1].TMDBID)
}
