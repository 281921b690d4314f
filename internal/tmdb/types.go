package tmdb

// Genre is a single entry from the TMDB genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is the full details payload for a single title.
type Movie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Genres        []Genre `json:"genres"`
}

// MovieSummary is the abbreviated shape returned by list endpoints
// (popular, discover, search). Genres come back as bare IDs here.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	GenreIDs    []int   `json:"genre_ids"`
}

// Page is one page of a paginated list response.
type Page struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []MovieSummary `json:"results"`
}

type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	Popularity  float64 `json:"popularity"`
	ProfilePath string  `json:"profile_path"`
}

type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Filters narrows list requests. Zero values mean "no constraint".
// Popularity bounds are never sent upstream; the discover endpoint has
// no popularity parameter, so callers apply them to results instead.
type Filters struct {
	YearFrom      int
	YearTo        int
	MinScore      float64
	MaxScore      float64
	MinPopularity float64
	MaxPopularity float64
	GenreID       int
}

// Empty reports whether no constraint is set.
func (f Filters) Empty() bool {
	return f == Filters{}
}
