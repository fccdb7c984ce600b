// Package ai provides text-completion access through a prioritized chain of
// remote providers. Callers see a single Complete contract; provider
// selection, pacing and failover live in the Orchestrator.
package ai

import (
	"context"
	"errors"
)

// Message is one turn of a completion conversation.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Provider adapts one remote completion API to a uniform contract. Adapters
// differ only in request/response shape; any error means "try the next one".
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// ErrUnavailable signals that every configured provider failed. Callers must
// fall back to deterministic behavior, never surface this to the end user.
var ErrUnavailable = errors.New("ai unavailable")

// UserMessage is a convenience constructor for the common single-turn case.
func UserMessage(content string) []Message {
	return []Message{{Role: "user", Content: content}}
}
