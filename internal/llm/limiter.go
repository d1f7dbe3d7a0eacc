package llm

import (
	"sync"
	"time"
)

// Limiter caps LLM requests per provider and across all providers
// within a rolling 24 hour window. A zero limit means unlimited. It
// exists to keep paid-provider usage bounded when the free local
// provider is down for a long stretch.
type Limiter struct {
	mu             sync.Mutex
	counts         map[string]int
	total          int
	maxPerProvider int
	maxTotal       int
	resetAt        time.Time
}

func NewLimiter(maxPerProvider, maxTotal int) *Limiter {
	return &Limiter{
		counts:         make(map[string]int),
		maxPerProvider: maxPerProvider,
		maxTotal:       maxTotal,
		resetAt:        time.Now().Add(24 * time.Hour),
	}
}

// TryAcquire consumes one request slot for the provider. It returns
// false when the provider's or the global budget is exhausted.
func (l *Limiter) TryAcquire(provider string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Now().After(l.resetAt) {
		l.counts = make(map[string]int)
		l.total = 0
		l.resetAt = time.Now().Add(24 * time.Hour)
	}

	if l.maxPerProvider > 0 && l.counts[provider] >= l.maxPerProvider {
		return false
	}
	if l.maxTotal > 0 && l.total >= l.maxTotal {
		return false
	}

	l.counts[provider]++
	l.total++
	return true
}

// Usage returns the requests consumed per provider in the current window.
func (l *Limiter) Usage() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}
