package tmdb

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", srv.URL, "en-US")
}

func TestMovieDetails(t *testing.T) {
	var gotPath, gotKey, gotLang string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotLang = r.URL.Query().Get("language")
		w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"overview": "A hacker learns the truth.",
			"release_date": "1999-03-31",
			"popularity": 85.3,
			"vote_average": 8.2,
			"vote_count": 24000,
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
		}`))
	})

	movie, err := client.MovieDetails(603)
	require.NoError(t, err)

	assert.Equal(t, "/movie/603", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "en-US", gotLang)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, 8.2, movie.VoteAverage)
	require.Len(t, movie.Genres, 2)
	assert.Equal(t, "Action", movie.Genres[0].Name)
}

func TestMovieCredits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603/credits", r.URL.Path)
		w.Write([]byte(`{
			"id": 603,
			"cast": [{"id": 1, "name": "Keanu Reeves", "popularity": 40.1, "profile_path": "/kr.jpg"}],
			"crew": [{"id": 2, "name": "Lana Wachowski", "job": "Director"}]
		}`))
	})

	credits, err := client.MovieCredits(603)
	require.NoError(t, err)
	require.Len(t, credits.Cast, 1)
	require.Len(t, credits.Crew, 1)
	assert.Equal(t, "Director", credits.Crew[0].Job)
	assert.Equal(t, 40.1, credits.Cast[0].Popularity)
}

func TestGenreList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}, {"id": 35, "name": "Comedy"}]}`))
	})

	genres, err := client.GenreList()
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, 35, genres[1].ID)
}

func TestDiscoverFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "1990-01-01", q.Get("primary_release_date.gte"))
		assert.Equal(t, "1999-12-31", q.Get("primary_release_date.lte"))
		assert.Equal(t, "28", q.Get("with_genres"))
		assert.Equal(t, "popularity.desc", q.Get("sort_by"))
		w.Write([]byte(`{"page": 1, "total_pages": 3, "total_results": 55, "results": [{"id": 603, "title": "The Matrix"}]}`))
	})

	page, err := client.Discover(1, Filters{YearFrom: 1990, YearTo: 1999, GenreID: 28})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Results, 1)
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "matrix", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"page": 2, "total_pages": 2, "total_results": 25, "results": []}`))
	})

	page, err := client.Search("matrix", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
}

func TestNoAPIKey(t *testing.T) {
	client := NewClient("", "http://unused", "en-US")
	_, err := client.Popular(1)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestConfigureEnablesClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page": 1, "total_pages": 1, "total_results": 0, "results": []}`))
	}))
	defer srv.Close()

	client := NewClient("", srv.URL, "en-US")
	_, err := client.Popular(1)
	require.ErrorIs(t, err, ErrNoAPIKey)

	client.Configure("new-key", "")
	_, err = client.Popular(1)
	assert.NoError(t, err)
}

func TestNon200Status(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.MovieDetails(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
