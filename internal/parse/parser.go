// Package parse turns free-form expense text into structured transaction
// fields. The primary path asks the AI orchestrator for a JSON object; any
// failure along that path lands on the deterministic fallback, so Parse
// always produces a usable result.
package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/HimanshuSingh-966/PayLog/internal/ai"
	"github.com/HimanshuSingh-966/PayLog/internal/core"
	"github.com/shopspring/decimal"
)

// extractionTemperature keeps the model close to deterministic output.
const extractionTemperature = 0.3

// Result is the parsed view of one expense message.
type Result struct {
	Amount        decimal.Decimal
	HasAmount     bool
	Category      string
	Description   string
	Merchant      string
	TimeReference string
}

// Completer is the slice of the orchestrator the parser needs.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message, temperature float64) (string, error)
}

type Parser struct {
	completer Completer
}

// New builds a parser. A nil completer is valid and routes everything
// through the fallback.
func New(completer Completer) *Parser {
	return &Parser{completer: completer}
}

// Parse extracts amount, category, description, merchant and time reference
// from free-form text.
func (p *Parser) Parse(ctx context.Context, text string) Result {
	if p.completer == nil {
		return Fallback(text)
	}
	response, err := p.completer.Complete(ctx, ai.UserMessage(extractionPrompt(text)), extractionTemperature)
	if err != nil {
		slog.DebugContext(ctx, "AI extraction unavailable, using fallback", "error", err)
		return Fallback(text)
	}
	r, err := decodeExtraction(response, text)
	if err != nil {
		slog.WarnContext(ctx, "Failed to decode AI extraction, using fallback", "error", err)
		return Fallback(text)
	}
	return r
}

func extractionPrompt(text string) string {
	return fmt.Sprintf(`Parse this expense transaction text and extract structured information.

Transaction text: %q

Extract:
1. amount (numeric value only)
2. category (groceries, food, transport, fuel, shopping, bills, entertainment, health, etc.)
3. description (what was bought/paid for)
4. merchant (store or location, if mentioned)
5. time_reference (today, yesterday, last week - return "today" if not mentioned)

Return ONLY a JSON object with these exact keys: amount, category, description, merchant, time_reference
If something is not mentioned, use empty string.

Example output: {"amount": "500", "category": "groceries", "description": "monthly groceries", "merchant": "DMart", "time_reference": "today"}`, text)
}

func decodeExtraction(response, original string) (Result, error) {
	obj, err := ExtractJSONObject(response)
	if err != nil {
		return Result{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return Result{}, fmt.Errorf("decode extraction JSON: %w", err)
	}

	r := Result{
		Category:      strings.ToLower(stringField(raw, "category")),
		Description:   stringField(raw, "description"),
		Merchant:      stringField(raw, "merchant"),
		TimeReference: strings.ToLower(stringField(raw, "time_reference")),
	}
	if amt := stringField(raw, "amount"); amt != "" {
		if d, err := core.ParseAmount(amt); err == nil {
			r.Amount = d
			r.HasAmount = true
		}
	}
	if r.Description == "" {
		r.Description = strings.TrimSpace(original)
	}
	if r.Category == "" {
		r.Category = core.DefaultCategory
	}
	if r.TimeReference == "" {
		r.TimeReference = "today"
	}
	return r, nil
}

// stringField reads a key that models return as either string or number.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return ""
	}
}

// ResolveTimeReference maps the extracted time reference onto a calendar
// day relative to now: "yesterday" means one day back, "last week" seven,
// anything else is today.
func ResolveTimeReference(ref string, now time.Time) time.Time {
	ref = strings.ToLower(ref)
	switch {
	case strings.Contains(ref, "yesterday"):
		return core.Day(now.AddDate(0, 0, -1))
	case strings.Contains(ref, "last") && strings.Contains(ref, "week"):
		return core.Day(now.AddDate(0, 0, -7))
	default:
		return core.Day(now)
	}
}
