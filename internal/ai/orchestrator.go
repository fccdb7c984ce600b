package ai

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultMinInterval is the minimum spacing between outgoing completion
// calls across the whole process, regardless of which provider serves them.
const DefaultMinInterval = 500 * time.Millisecond

// Orchestrator tries providers in priority order and fails over on any
// error, timeout or quota refusal. A single process-wide gate enforces the
// minimum inter-call spacing before the first attempt of each Complete call.
type Orchestrator struct {
	providers   []Provider
	minInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time

	// test seams
	now   func() time.Time
	sleep func(time.Duration)
}

// NewOrchestrator builds an orchestrator over the given providers, highest
// priority first. A non-positive minInterval disables pacing.
func NewOrchestrator(providers []Provider, minInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		providers:   providers,
		minInterval: minInterval,
		now:         time.Now,
		sleep:       time.Sleep,
	}
}

// Configured reports whether at least one provider is available.
func (o *Orchestrator) Configured() bool {
	return len(o.providers) > 0
}

// Complete returns the first successful provider response. When every
// configured provider fails it returns ErrUnavailable; callers treat that as
// "AI unavailable", not as an error to propagate.
func (o *Orchestrator) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	if len(o.providers) == 0 {
		return "", ErrUnavailable
	}
	o.waitTurn()

	for _, p := range o.providers {
		text, err := p.Complete(ctx, messages, temperature)
		if err != nil {
			slog.WarnContext(ctx, "Provider failed, trying next",
				"provider", p.Name(), "error", err)
			continue
		}
		if text == "" {
			slog.WarnContext(ctx, "Provider returned empty response, trying next",
				"provider", p.Name())
			continue
		}
		return text, nil
	}
	return "", ErrUnavailable
}

// waitTurn blocks until the global minimum spacing since the previous call
// has elapsed. The gate is deliberately process-global, not per provider.
func (o *Orchestrator) waitTurn() {
	if o.minInterval <= 0 {
		return
	}
	o.mu.Lock()
	now := o.now()
	wait := o.minInterval - now.Sub(o.lastCall)
	if wait < 0 {
		wait = 0
	}
	o.lastCall = now.Add(wait)
	o.mu.Unlock()

	if wait > 0 {
		o.sleep(wait)
	}
}
