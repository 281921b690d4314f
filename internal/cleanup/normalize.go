package cleanup

import (
	"strings"
)

var articles = map[string]bool{"the": true, "a": true, "an": true}

const punctuation = ".,!?;:"

// NormalizeTitle reduces a title to a comparison key: lowercase, with
// leading articles and common punctuation removed and whitespace
// collapsed. "The Matrix" and "Matrix, The" normalize alike.
func NormalizeTitle(title string) string {
	lower := strings.ToLower(title)
	lower = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, lower)

	var words []string
	for _, w := range strings.Fields(lower) {
		if articles[w] {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}
