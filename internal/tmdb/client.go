package tmdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ErrNoAPIKey is returned by every request method when the client has
// no API key configured. Callers treat it as "integration disabled".
var ErrNoAPIKey = errors.New("TMDB API key not configured")

const imageBaseURL = "https://image.tmdb.org/t/p/w500"

// Client talks to the TMDB v3 REST API. The key, base URL and language
// can be swapped at runtime via Configure, so all reads go through the
// mutex.
type Client struct {
	mu       sync.RWMutex
	apiKey   string
	baseURL  string
	language string

	client *http.Client
}

func NewClient(apiKey, baseURL, language string) *Client {
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		language: language,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configure replaces the API key and base URL. Empty baseURL keeps the
// current one.
func (c *Client) Configure(apiKey, baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = apiKey
	if baseURL != "" {
		c.baseURL = baseURL
	}
}

func (c *Client) credentials() (apiKey, baseURL, language string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey, c.baseURL, c.language
}

// MovieDetails fetches the full record for one TMDB movie ID.
func (c *Client) MovieDetails(tmdbID int) (*Movie, error) {
	var movie Movie
	if err := c.getJSON(fmt.Sprintf("/movie/%d", tmdbID), nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// MovieCredits fetches cast and crew for one TMDB movie ID.
func (c *Client) MovieCredits(tmdbID int) (*Credits, error) {
	var credits Credits
	if err := c.getJSON(fmt.Sprintf("/movie/%d/credits", tmdbID), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// GenreList fetches the canonical movie genre list.
func (c *Client) GenreList() ([]Genre, error) {
	var out struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.getJSON("/genre/movie/list", nil, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// Popular fetches one page of currently popular movies.
func (c *Client) Popular(page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	var result Page
	if err := c.getJSON("/movie/popular", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Discover fetches one page of movies matching the release-date and
// genre constraints, sorted by popularity.
func (c *Client) Discover(page int, filters Filters) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")
	if filters.YearFrom != 0 {
		params.Set("primary_release_date.gte", fmt.Sprintf("%d-01-01", filters.YearFrom))
	}
	if filters.YearTo != 0 {
		params.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", filters.YearTo))
	}
	if filters.GenreID != 0 {
		params.Set("with_genres", strconv.Itoa(filters.GenreID))
	}
	if filters.MinScore != 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(filters.MinScore, 'f', -1, 64))
	}
	if filters.MaxScore != 0 {
		params.Set("vote_average.lte", strconv.FormatFloat(filters.MaxScore, 'f', -1, 64))
	}
	var result Page
	if err := c.getJSON("/discover/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search fetches one page of title matches for the query. Year filters
// map onto primary_release_year when the range is a single year; wider
// ranges are left for the caller to filter.
func (c *Client) Search(query string, page int) (*Page, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	var result Page
	if err := c.getJSON("/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ProfileImage downloads a profile image by its TMDB path. The image
// CDN is unauthenticated, so this works even without an API key.
func (c *Client) ProfileImage(profilePath string) ([]byte, error) {
	resp, err := c.client.Get(imageBaseURL + profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TMDB image returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(path string, params url.Values, dst interface{}) error {
	apiKey, baseURL, language := c.credentials()
	if apiKey == "" {
		return ErrNoAPIKey
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", apiKey)
	params.Set("language", language)

	resp, err := c.client.Get(baseURL + path + "?" + params.Encode())
	if err != nil {
		return fmt.Errorf("failed to fetch from TMDB: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}
