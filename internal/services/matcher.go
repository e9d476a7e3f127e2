// Package services contains the application services of the tracking core:
// similarity matching, confidence scoring, statistics aggregation, retention,
// and the Tracker facade tying them to a history store.
package services

import (
	"sort"
	"strings"

	"github.com/doeshing/alan-go/internal/domain"
)

// Matcher finds previously accepted suggestions whose request text is
// lexically close to a new request. Similarity is the Jaccard index over
// normalized token sets: identical requests score 1.0, disjoint ones 0.0.
type Matcher struct {
	stopWords map[string]struct{}
}

// Match pairs an eligible record with its similarity score.
type Match struct {
	Record     domain.SuggestionRecord
	Similarity float64
}

// defaultStopWords are filtered out before comparing requests. Filler words
// carry no intent ("please list the files" and "list files" should be
// identical), so they must not dilute the overlap.
var defaultStopWords = []string{
	"a", "an", "the", "to", "of", "in", "on", "for", "and", "or",
	"my", "me", "i", "is", "it", "this", "that", "with", "from",
	"please", "can", "you", "do",
}

// NewMatcher builds a matcher with the default stop-word list.
func NewMatcher() *Matcher {
	words := make(map[string]struct{}, len(defaultStopWords))
	for _, w := range defaultStopWords {
		words[w] = struct{}{}
	}
	return &Matcher{stopWords: words}
}

// Tokenize normalizes a request text: lower-cased, punctuation stripped,
// stop words removed, deduplicated.
func (m *Matcher) Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := m.stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// Similarity computes the Jaccard index over the normalized token sets of two
// request texts. Requests that normalize to the same (possibly empty) token
// set score 1.0.
func (m *Matcher) Similarity(a, b string) float64 {
	ta := m.Tokenize(a)
	tb := m.Tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
			return 1.0
		}
		return 0.0
	}
	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	intersection := 0
	for _, t := range tb {
		if _, ok := set[t]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// FindSimilar returns the accepted records on the same platform ranked by
// similarity to request, descending, ties broken by more recent timestamp.
// Records with zero similarity are not returned. An empty result is a normal
// outcome, not an error.
func (m *Matcher) FindSimilar(records []domain.SuggestionRecord, request, platform string, maxResults int) []Match {
	var matches []Match
	for _, rec := range records {
		if rec.Platform != platform || rec.Outcome != domain.OutcomeAccepted {
			continue
		}
		score := m.Similarity(request, rec.RequestText)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Record: rec, Similarity: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity == matches[j].Similarity {
			return matches[i].Record.Timestamp.After(matches[j].Record.Timestamp)
		}
		return matches[i].Similarity > matches[j].Similarity
	})
	if maxResults > 0 && len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}
