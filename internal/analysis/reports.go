package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cinedex/cinedex/internal/models"
	"github.com/google/uuid"
)

// decadeReport breaks the collection down by release decade with per
// decade counts, share and average rating.
func (a *Analyzer) decadeReport(movies []*models.Movie) string {
	if len(movies) == 0 {
		return "No movies in range."
	}

	type bucket struct {
		count     int
		ratingSum float64
	}
	buckets := make(map[int]*bucket)
	for _, m := range movies {
		decade := (m.ReleaseDate.Year() / 10) * 10
		b := buckets[decade]
		if b == nil {
			b = &bucket{}
			buckets[decade] = b
		}
		b.count++
		b.ratingSum += m.VoteAverage
	}

	decades := make([]int, 0, len(buckets))
	for d := range buckets {
		decades = append(decades, d)
	}
	sort.Ints(decades)

	var sb strings.Builder
	sb.WriteString("Movies by decade:\n")
	for _, d := range decades {
		b := buckets[d]
		share := float64(b.count) / float64(len(movies)) * 100
		sb.WriteString(fmt.Sprintf("  %ds: %d movies (%.1f%%), avg rating %.2f\n",
			d, b.count, share, b.ratingSum/float64(b.count)))
	}
	return sb.String()
}

// genreReport counts movies per genre, sorted by count descending.
// Movies can carry several genres, so counts sum to more than the
// movie total.
func (a *Analyzer) genreReport(movies []*models.Movie) (string, error) {
	if len(movies) == 0 {
		return "No movies in range.", nil
	}

	genres, err := a.genres.List()
	if err != nil {
		return "", err
	}
	names := make(map[uuid.UUID]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}

	type bucket struct {
		name      string
		count     int
		ratingSum float64
	}
	buckets := make(map[string]*bucket)
	unclassified := 0
	for _, m := range movies {
		if len(m.GenreIDs) == 0 {
			unclassified++
			continue
		}
		for _, gid := range m.GenreIDs {
			name := names[gid]
			if name == "" {
				continue
			}
			b := buckets[name]
			if b == nil {
				b = &bucket{name: name}
				buckets[name] = b
			}
			b.count++
			b.ratingSum += m.VoteAverage
		}
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].name < ordered[j].name
	})

	var sb strings.Builder
	sb.WriteString("Movies by genre:\n")
	for _, b := range ordered {
		sb.WriteString(fmt.Sprintf("  %s: %d movies, avg rating %.2f\n",
			b.name, b.count, b.ratingSum/float64(b.count)))
	}
	if unclassified > 0 {
		sb.WriteString(fmt.Sprintf("  (no genre): %d movies\n", unclassified))
	}
	return sb.String(), nil
}

// ratingPopularityReport splits the collection into four quadrants
// around the rating and popularity thresholds, listing up to five
// example titles per quadrant.
func (a *Analyzer) ratingPopularityReport(movies []*models.Movie) string {
	if len(movies) == 0 {
		return "No movies in range."
	}

	const maxExamples = 5
	quadrants := []struct {
		label   string
		matches func(*models.Movie) bool
	}{
		{"Crowd pleasers (high rating, high popularity)", func(m *models.Movie) bool {
			return m.VoteAverage >= ratingThreshold && m.Popularity >= popularityThreshold
		}},
		{"Hidden gems (high rating, low popularity)", func(m *models.Movie) bool {
			return m.VoteAverage >= ratingThreshold && m.Popularity < popularityThreshold
		}},
		{"Mainstream (low rating, high popularity)", func(m *models.Movie) bool {
			return m.VoteAverage < ratingThreshold && m.Popularity >= popularityThreshold
		}},
		{"Niche (low rating, low popularity)", func(m *models.Movie) bool {
			return m.VoteAverage < ratingThreshold && m.Popularity < popularityThreshold
		}},
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rating vs popularity (thresholds %.1f / %.1f):\n",
		ratingThreshold, popularityThreshold))
	for _, q := range quadrants {
		var examples []string
		count := 0
		for _, m := range movies {
			if !q.matches(m) {
				continue
			}
			count++
			if len(examples) < maxExamples {
				examples = append(examples, m.Title)
			}
		}
		sb.WriteString(fmt.Sprintf("  %s: %d movies\n", q.label, count))
		if len(examples) > 0 {
			sb.WriteString(fmt.Sprintf("    e.g. %s\n", strings.Join(examples, ", ")))
		}
	}
	return sb.String()
}

// gapsThreshold is the per-year count below which coverage counts as
// thin.
const gapsThreshold = 3

// gapsReport walks every year of the filter range, flagging thin years
// and collapsing consecutive empty years into ranges, then checks genre
// coverage against the full genre table.
func (a *Analyzer) gapsReport(movies []*models.Movie, f Filters) (string, error) {
	fromYear, toYear := f.DateFrom.Year(), f.DateTo.Year()
	if fromYear > toYear {
		return "Invalid date range.", nil
	}

	counts := make(map[int]int)
	for _, m := range movies {
		counts[m.ReleaseDate.Year()]++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Coverage gaps (%d-%d, years with fewer than %d movies):\n",
		fromYear, toYear, gapsThreshold))

	flagged := 0
	emptyStart := 0
	inEmptyRun := false
	flushEmpty := func(end int) {
		if !inEmptyRun {
			return
		}
		if emptyStart == end {
			sb.WriteString(fmt.Sprintf("  %d: no movies\n", emptyStart))
		} else {
			sb.WriteString(fmt.Sprintf("  %d-%d: no movies\n", emptyStart, end))
		}
		inEmptyRun = false
	}

	for year := fromYear; year <= toYear; year++ {
		n := counts[year]
		if n == 0 {
			if !inEmptyRun {
				inEmptyRun = true
				emptyStart = year
			}
			flagged++
			continue
		}
		flushEmpty(year - 1)
		if n < gapsThreshold {
			sb.WriteString(fmt.Sprintf("  %d: only %d movie(s)\n", year, n))
			flagged++
		}
	}
	flushEmpty(toYear)

	if flagged == 0 {
		sb.WriteString("  None. Every year is well covered.\n")
	}

	genreCoverage, err := a.genreCoverage(movies)
	if err != nil {
		return "", err
	}
	sb.WriteString(genreCoverage)
	return sb.String(), nil
}

// genreCoverage checks the filtered set against every genre on file,
// so genres with no movies at all show up as gaps.
func (a *Analyzer) genreCoverage(movies []*models.Movie) (string, error) {
	genres, err := a.genres.List()
	if err != nil {
		return "", err
	}

	counts := make(map[uuid.UUID]int)
	for _, m := range movies {
		for _, gid := range m.GenreIDs {
			counts[gid]++
		}
	}

	var sb strings.Builder
	sb.WriteString("Genre coverage:\n")
	covered := 0
	for _, g := range genres {
		n := counts[g.ID]
		switch {
		case n == 0:
			sb.WriteString(fmt.Sprintf("  %s: no movies\n", g.Name))
		case n < gapsThreshold:
			covered++
			sb.WriteString(fmt.Sprintf("  %s: only %d movie(s)\n", g.Name, n))
		default:
			covered++
			sb.WriteString(fmt.Sprintf("  %s: %d movies\n", g.Name, n))
		}
	}
	sb.WriteString(fmt.Sprintf("  %d of %d genres covered\n", covered, len(genres)))
	return sb.String(), nil
}

func (a *Analyzer) summary(r *Result) string {
	return fmt.Sprintf("Analyzed %d movies (%s). Average rating %.2f, average popularity %.2f.",
		r.TotalMovies, r.DateRange, r.AvgRating, r.AvgPopularity)
}
