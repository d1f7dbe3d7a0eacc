package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdigest/internal/metrics"
)

// ErrBudgetExhausted marks an attempt skipped by the request limiter.
var ErrBudgetExhausted = errors.New("provider request budget exhausted")

// Attempt records one failed provider call.
type Attempt struct {
	Provider string
	Err      error
}

// AllFailedError reports that every configured provider failed, in the
// order they were tried.
type AllFailedError struct {
	Attempts []Attempt
}

func (e *AllFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "no LLM providers configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Provider, a.Err))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Router tries providers in fixed priority order. Each provider gets a
// single bounded call; the first success short-circuits. Retry is only
// ever expressed as "try the next provider".
type Router struct {
	providers []Provider
	limiter   *Limiter
	timeout   time.Duration
}

func NewRouter(providers []Provider, limiter *Limiter, timeout time.Duration) *Router {
	return &Router{providers: providers, limiter: limiter, timeout: timeout}
}

// Providers returns the names of the configured providers in priority order.
func (r *Router) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}

// Complete runs the prompt against the provider chain and returns the
// first successful completion along with the provider that produced it.
func (r *Router) Complete(ctx context.Context, prompt Prompt) (string, string, error) {
	var attempts []Attempt

	for _, p := range r.providers {
		if r.limiter != nil && !r.limiter.TryAcquire(p.Name()) {
			slog.Warn("skipping provider, budget exhausted", "provider", p.Name())
			metrics.ProviderRequestsTotal.WithLabelValues(p.Name(), "skipped").Inc()
			attempts = append(attempts, Attempt{Provider: p.Name(), Err: ErrBudgetExhausted})
			continue
		}

		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		text, err := p.Complete(callCtx, prompt)
		cancel()
		metrics.ProviderRequestDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())

		if err != nil {
			slog.Warn("provider call failed", "provider", p.Name(), "error", err)
			metrics.ProviderRequestsTotal.WithLabelValues(p.Name(), "error").Inc()
			attempts = append(attempts, Attempt{Provider: p.Name(), Err: err})
			continue
		}

		metrics.ProviderRequestsTotal.WithLabelValues(p.Name(), "success").Inc()
		slog.Debug("provider call succeeded", "provider", p.Name(), "duration", time.Since(start))
		return text, p.Name(), nil
	}

	return "", "", &AllFailedError{Attempts: attempts}
}
