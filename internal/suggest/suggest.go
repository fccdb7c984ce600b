// Package suggest guesses a transaction category from a user's own
// history with a naive Bayes classifier over description tokens.
package suggest

import (
	"strings"

	"github.com/jbrukh/bayesian"

	"github.com/HimanshuSingh-966/PayLog/internal/prefs"
)

// minHistory is the smallest history worth training on.
const minHistory = 3

// Suggester scores candidate categories for a description.
type Suggester struct {
	classifier *bayesian.Classifier
	classes    []bayesian.Class
	fallback   string // most frequent category, used when training is impossible
}

// Train builds a suggester from a user's rolling history. It returns nil
// when the history is too small or too uniform to classify, and callers
// must treat a nil suggester as "no opinion".
func Train(history []prefs.HistoryEntry) *Suggester {
	if len(history) < minHistory {
		return nil
	}

	byCategory := map[string][]string{}
	counts := map[string]int{}
	mostFrequent := ""
	for _, h := range history {
		if h.Category == "" {
			continue
		}
		byCategory[h.Category] = append(byCategory[h.Category], tokenize(h.Description)...)
		counts[h.Category]++
		if mostFrequent == "" || counts[h.Category] > counts[mostFrequent] {
			mostFrequent = h.Category
		}
	}

	// The classifier needs at least two classes; with one category all
	// suggestions are that category anyway.
	if len(byCategory) < 2 {
		return &Suggester{fallback: mostFrequent}
	}

	var classes []bayesian.Class
	for category := range byCategory {
		classes = append(classes, bayesian.Class(category))
	}
	classifier := bayesian.NewClassifier(classes...)
	for _, class := range classes {
		classifier.Learn(byCategory[string(class)], class)
	}
	return &Suggester{classifier: classifier, classes: classes}
}

// Suggest returns the likeliest category for the description, or "" when
// the description carries no usable tokens.
func (s *Suggester) Suggest(description string) string {
	if s == nil {
		return ""
	}
	tokens := tokenize(description)
	if len(tokens) == 0 {
		return ""
	}
	if s.classifier == nil {
		return s.fallback
	}
	_, best, _ := s.classifier.LogScores(tokens)
	return string(s.classes[best])
}

func tokenize(description string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(description)) {
		f = strings.Trim(f, ".,!?;:\"'()")
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
