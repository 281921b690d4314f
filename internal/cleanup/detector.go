package cleanup

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

// Criteria selects how movies are matched into duplicate groups.
type Criteria string

const (
	CriteriaTMDBID       Criteria = "tmdb_id"
	CriteriaTitleDate    Criteria = "title_date"
	CriteriaTitleSimilar Criteria = "title_similar"
	CriteriaAll          Criteria = "all"
)

// KeepPolicy selects which member of each group is recommended to survive.
type KeepPolicy string

const (
	KeepNewest        KeepPolicy = "newest"
	KeepMostComplete  KeepPolicy = "most_complete"
	KeepHighestRating KeepPolicy = "highest_rating"
	KeepManual        KeepPolicy = "manual"
)

// State of the cleanup session. Merge and delete both return the
// session to idle once they finish.
type State string

const (
	StateIdle     State = "idle"
	StateDetected State = "detected"
)

var (
	ErrNoDetection     = errors.New("no detection run: detect duplicates first")
	ErrUnknownCriteria = errors.New("unknown detection criteria")
	ErrUnknownPolicy   = errors.New("unknown keep policy")
)

// Store is the movie persistence surface the cleanup session needs.
type Store interface {
	ListActive() ([]*models.Movie, error)
	Create(m *models.Movie) error
	Update(m *models.Movie) error
	SetGenres(movieID uuid.UUID, genreIDs []uuid.UUID) error
	Delete(id uuid.UUID) error
}

// Member is one movie inside a duplicate group.
type Member struct {
	Movie *models.Movie `json:"movie"`
	Keep  bool          `json:"keep"`
}

// Group is a set of movies matched by the detection criteria.
type Group struct {
	Number  int       `json:"number"`
	Reason  string    `json:"reason"`
	Members []*Member `json:"members"`
}

// Session holds one detection result at a time. All operations are
// serialized; a new detection replaces the previous one.
type Session struct {
	mu       sync.Mutex
	store    Store
	state    State
	criteria Criteria
	policy   KeepPolicy
	groups   []*Group
}

func NewSession(store Store) *Session {
	return &Session{store: store, state: StateIdle}
}

// Report summarizes a detection pass.
type Report struct {
	State      State    `json:"state"`
	Criteria   Criteria `json:"criteria,omitempty"`
	Groups     []*Group `json:"groups,omitempty"`
	GroupCount int      `json:"group_count"`
	MovieCount int      `json:"movie_count"`
}

// Detect scans all active movies and groups them by the criteria.
// CriteriaAll runs every pass in order; a movie pair can then appear
// in more than one group. Groups with a single member are not
// duplicates and are dropped. Unless the policy is manual, each group
// gets a recommended keeper.
func (s *Session) Detect(criteria Criteria, policy KeepPolicy) (*Report, error) {
	keyFns, err := groupKeys(criteria)
	if err != nil {
		return nil, err
	}
	if err := validPolicy(policy); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	movies, err := s.store.ListActive()
	if err != nil {
		return nil, err
	}

	s.groups = nil
	for _, keyFn := range keyFns {
		buckets := make(map[string][]*models.Movie)
		var order []string
		for _, m := range movies {
			key := keyFn(m)
			if key == "" {
				continue
			}
			if _, seen := buckets[key]; !seen {
				order = append(order, key)
			}
			buckets[key] = append(buckets[key], m)
		}

		for _, key := range order {
			group := buckets[key]
			if len(group) < 2 {
				continue
			}
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].CreatedAt.Before(group[j].CreatedAt)
			})
			g := &Group{
				Number: len(s.groups) + 1,
				Reason: groupReason(group),
			}
			for _, m := range group {
				g.Members = append(g.Members, &Member{Movie: m})
			}
			if policy != KeepManual {
				recommendKeeper(g, policy)
			}
			s.groups = append(s.groups, g)
		}
	}

	s.criteria = criteria
	s.policy = policy
	s.state = StateDetected
	return s.reportLocked(), nil
}

// Groups returns the current detection result.
func (s *Session) Groups() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportLocked()
}

// SetKeep marks one member of a group as the keeper, clearing any
// previous choice in that group.
func (s *Session) SetKeep(groupNumber int, movieID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDetected {
		return ErrNoDetection
	}
	for _, g := range s.groups {
		if g.Number != groupNumber {
			continue
		}
		found := false
		for _, member := range g.Members {
			if member.Movie.ID == movieID {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("movie %s is not in group %d", movieID, groupNumber)
		}
		for _, member := range g.Members {
			member.Keep = member.Movie.ID == movieID
		}
		return nil
	}
	return fmt.Errorf("no group %d", groupNumber)
}

func (s *Session) reportLocked() *Report {
	report := &Report{
		State:      s.state,
		Criteria:   s.criteria,
		Groups:     s.groups,
		GroupCount: len(s.groups),
	}
	for _, g := range s.groups {
		report.MovieCount += len(g.Members)
	}
	return report
}

// groupKeys maps a criteria to one bucketing function per detection
// pass. An empty key excludes the movie from that pass.
func groupKeys(criteria Criteria) ([]func(*models.Movie) string, error) {
	byTMDBID := func(m *models.Movie) string {
		return fmt.Sprintf("tmdb:%d", m.TMDBID)
	}
	// Exact title and exact release date; movies without a date share
	// their own bucket per title.
	byTitleDate := func(m *models.Movie) string {
		date := "none"
		if m.ReleaseDate != nil {
			date = m.ReleaseDate.Format("2006-01-02")
		}
		return "td:" + m.Title + "|" + date
	}
	// Normalized title within the same release year; undated movies
	// cannot be similar-title duplicates.
	byTitleSimilar := func(m *models.Movie) string {
		if m.ReleaseDate == nil {
			return ""
		}
		return fmt.Sprintf("sim:%d:%s", m.ReleaseDate.Year(), NormalizeTitle(m.Title))
	}

	switch criteria {
	case CriteriaTMDBID:
		return []func(*models.Movie) string{byTMDBID}, nil
	case CriteriaTitleDate:
		return []func(*models.Movie) string{byTitleDate}, nil
	case CriteriaTitleSimilar:
		return []func(*models.Movie) string{byTitleSimilar}, nil
	case CriteriaAll:
		return []func(*models.Movie) string{byTMDBID, byTitleDate, byTitleSimilar}, nil
	default:
		return nil, ErrUnknownCriteria
	}
}

// groupReason re-inspects the first two members rather than recording
// the pass that produced the group, so a pair matching on several
// criteria reports the strongest one.
func groupReason(group []*models.Movie) string {
	first, second := group[0], group[1]
	if first.TMDBID == second.TMDBID {
		return fmt.Sprintf("same TMDB ID %d", first.TMDBID)
	}
	if first.Title == second.Title && sameDate(first.ReleaseDate, second.ReleaseDate) {
		date := "no release date"
		if first.ReleaseDate != nil {
			date = first.ReleaseDate.Format("2006-01-02")
		}
		return fmt.Sprintf("same title and release date: %q (%s)", first.Title, date)
	}
	return fmt.Sprintf("similar titles: %q and %q", first.Title, second.Title)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func recommendKeeper(g *Group, policy KeepPolicy) {
	best := 0
	for i, member := range g.Members {
		if better(member.Movie, g.Members[best].Movie, policy) {
			best = i
		}
	}
	g.Members[best].Keep = true
}

func better(candidate, current *models.Movie, policy KeepPolicy) bool {
	switch policy {
	case KeepNewest:
		return candidate.CreatedAt.After(current.CreatedAt)
	case KeepMostComplete:
		return completenessScore(candidate) > completenessScore(current)
	case KeepHighestRating:
		return candidate.VoteAverage > current.VoteAverage
	default:
		return false
	}
}

// completenessScore counts filled metadata: one point each for
// overview, director, poster and backdrop, one per genre, and one for
// having any votes.
func completenessScore(m *models.Movie) int {
	score := 0
	if m.Overview != nil && *m.Overview != "" {
		score++
	}
	if m.Director != nil && *m.Director != "" {
		score++
	}
	if m.PosterPath != nil && *m.PosterPath != "" {
		score++
	}
	if m.BackdropPath != nil && *m.BackdropPath != "" {
		score++
	}
	score += len(m.GenreIDs)
	if m.VoteCount > 0 {
		score++
	}
	return score
}

func validPolicy(policy KeepPolicy) error {
	switch policy {
	case KeepNewest, KeepMostComplete, KeepHighestRating, KeepManual:
		return nil
	default:
		return ErrUnknownPolicy
	}
}
