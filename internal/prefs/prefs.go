// Package prefs holds per-user preferences: aliases, goals, spending
// limits, alert settings and a rolling history of recent transactions used
// for category suggestions.
package prefs

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/shopspring/decimal"
)

// historyCap bounds the rolling transaction history per user.
const historyCap = 100

// AlertSettings controls which proactive warnings a user receives.
type AlertSettings struct {
	SpikeMultiplier float64 `json:"spike_multiplier"`
	WeeklySummary   bool    `json:"weekly_summary"`
	MonthlyWarning  bool    `json:"monthly_warning"`
}

// HistoryEntry is one remembered transaction, the raw material for
// category suggestions and frequent-pattern mining.
type HistoryEntry struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}

// Context remembers the most recent transaction fields so follow-up
// messages can omit them.
type Context struct {
	LastCategory string          `json:"last_category,omitempty"`
	LastAmount   decimal.Decimal `json:"last_amount,omitempty"`
	LastWallet   core.Wallet     `json:"last_wallet,omitempty"`
}

// Preferences is one user's stored document.
type Preferences struct {
	Aliases        map[string]string          `json:"aliases,omitempty"`
	Goals          []core.Goal                `json:"goals,omitempty"`
	SpendingLimits map[string]decimal.Decimal `json:"spending_limits,omitempty"`
	Alerts         AlertSettings              `json:"alerts"`
	Context        Context                    `json:"context"`
	History        []HistoryEntry             `json:"history,omitempty"`
}

// Default returns the preferences a new user starts with.
func Default() Preferences {
	return Preferences{
		Alerts: AlertSettings{
			SpikeMultiplier: 3,
			WeeklySummary:   true,
			MonthlyWarning:  true,
		},
	}
}

// SetAlias registers shorthand text that expands to a full phrase. Both
// sides are stored lowercase so matching is case-insensitive.
func (p *Preferences) SetAlias(shorthand, expansion string) {
	if p.Aliases == nil {
		p.Aliases = map[string]string{}
	}
	p.Aliases[strings.ToLower(strings.TrimSpace(shorthand))] = strings.TrimSpace(expansion)
}

// ExpandAliases substitutes every alias that appears in text as a literal
// case-insensitive substring. The longest aliases are not prioritized;
// insertion order is map order, so overlapping aliases should be avoided
// by the user.
func (p *Preferences) ExpandAliases(text string) string {
	for shorthand, expansion := range p.Aliases {
		if start, end := foldIndex(text, shorthand); start >= 0 {
			text = text[:start] + expansion + text[end:]
		}
	}
	return text
}

// foldIndex reports the byte range of the first case-insensitive match of
// sub in s, or (-1, -1). Matching walks rune boundaries of s directly
// instead of indexing into a lowered copy, whose byte offsets drift when
// lowering changes a rune's encoded length.
func foldIndex(s, sub string) (int, int) {
	runes := utf8.RuneCountInString(sub)
	if runes == 0 {
		return -1, -1
	}
	for start := 0; start < len(s); {
		end, count := start, 0
		for end < len(s) && count < runes {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
			count++
		}
		if count == runes && strings.EqualFold(s[start:end], sub) {
			return start, end
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		start += size
	}
	return -1, -1
}

// Remember appends one transaction to the rolling history, refreshes the
// conversational context, and trims the history to its cap.
func (p *Preferences) Remember(description, category string, amount decimal.Decimal, wallet core.Wallet, at time.Time) {
	p.History = append(p.History, HistoryEntry{
		Description: description,
		Category:    category,
		Amount:      amount,
		Date:        at,
	})
	if len(p.History) > historyCap {
		p.History = p.History[len(p.History)-historyCap:]
	}
	p.Context = Context{LastCategory: category, LastAmount: amount, LastWallet: wallet}
}

// SetSpendingLimit stores a per-category monthly ceiling.
func (p *Preferences) SetSpendingLimit(category string, limit decimal.Decimal) {
	if p.SpendingLimits == nil {
		p.SpendingLimits = map[string]decimal.Decimal{}
	}
	p.SpendingLimits[strings.ToLower(category)] = limit
}

// Store persists preference documents keyed by user id. Get returns
// Default() for unknown users.
type Store interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Put(ctx context.Context, userID string, p Preferences) error
	Close() error
}
