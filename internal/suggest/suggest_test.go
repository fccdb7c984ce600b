package suggest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/HimanshuSingh-966/PayLog/internal/prefs"
)

func entry(description, category string) prefs.HistoryEntry {
	return prefs.HistoryEntry{
		Description: description,
		Category:    category,
		Amount:      decimal.NewFromInt(100),
		Date:        time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestSuggestFromHistory(t *testing.T) {
	s := Train([]prefs.HistoryEntry{
		entry("morning coffee with friends", "food"),
		entry("coffee and sandwich", "food"),
		entry("metro card recharge", "transport"),
		entry("uber ride home", "transport"),
	})
	if s == nil {
		t.Fatal("expected a trained suggester")
	}
	if got := s.Suggest("coffee before work"); got != "food" {
		t.Fatalf("Suggest(coffee) = %q, want food", got)
	}
	if got := s.Suggest("late night uber"); got != "transport" {
		t.Fatalf("Suggest(uber) = %q, want transport", got)
	}
}

func TestTrainTooLittleHistory(t *testing.T) {
	s := Train([]prefs.HistoryEntry{entry("coffee", "food")})
	if s != nil {
		t.Fatal("tiny history should not train")
	}
	if got := s.Suggest("coffee"); got != "" {
		t.Fatalf("nil suggester returned %q", got)
	}
}

func TestTrainSingleCategory(t *testing.T) {
	s := Train([]prefs.HistoryEntry{
		entry("coffee", "food"),
		entry("lunch", "food"),
		entry("dinner", "food"),
	})
	if s == nil {
		t.Fatal("single-category history should still suggest")
	}
	if got := s.Suggest("breakfast burrito"); got != "food" {
		t.Fatalf("Suggest = %q, want food", got)
	}
}

func TestSuggestNoTokens(t *testing.T) {
	s := Train([]prefs.HistoryEntry{
		entry("coffee shop", "food"),
		entry("bus pass", "transport"),
		entry("metro card", "transport"),
	})
	if got := s.Suggest("a b"); got != "" {
		t.Fatalf("short tokens should yield no suggestion, got %q", got)
	}
}
