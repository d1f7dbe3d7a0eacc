package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, p Prompt) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestCompleteFirstProviderWins(t *testing.T) {
	first := &fakeProvider{name: "local", text: "from local"}
	second := &fakeProvider{name: "openai", text: "from openai"}
	r := NewRouter([]Provider{first, second}, nil, time.Second)

	text, provider, err := r.Complete(context.Background(), Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from local", text)
	assert.Equal(t, "local", provider)
	assert.Equal(t, 0, second.calls, "later providers must not be tried after a success")
}

func TestCompleteFallsBackToNextProvider(t *testing.T) {
	first := &fakeProvider{name: "local", err: errors.New("connection refused")}
	second := &fakeProvider{name: "openai", text: "from openai"}
	r := NewRouter([]Provider{first, second}, nil, time.Second)

	text, provider, err := r.Complete(context.Background(), Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from openai", text)
	assert.Equal(t, "openai", provider)
	assert.Equal(t, 1, first.calls, "failed provider gets exactly one attempt")
}

func TestCompleteAllProvidersFail(t *testing.T) {
	first := &fakeProvider{name: "local", err: errors.New("connection refused")}
	second := &fakeProvider{name: "openai", err: errors.New("401 unauthorized")}
	third := &fakeProvider{name: "gemini", err: errors.New("quota exceeded")}
	r := NewRouter([]Provider{first, second, third}, nil, time.Second)

	_, _, err := r.Complete(context.Background(), Prompt{User: "hi"})

	var all *AllFailedError
	require.True(t, errors.As(err, &all))
	require.Len(t, all.Attempts, 3)
	assert.Equal(t, "local", all.Attempts[0].Provider)
	assert.Equal(t, "openai", all.Attempts[1].Provider)
	assert.Equal(t, "gemini", all.Attempts[2].Provider)
}

func TestCompleteNoProviders(t *testing.T) {
	r := NewRouter(nil, nil, time.Second)

	_, _, err := r.Complete(context.Background(), Prompt{User: "hi"})

	var all *AllFailedError
	require.True(t, errors.As(err, &all))
	assert.Empty(t, all.Attempts)
	assert.Equal(t, "no LLM providers configured", all.Error())
}

func TestCompleteSkipsProviderOverBudget(t *testing.T) {
	limiter := NewLimiter(1, 0)
	p := &fakeProvider{name: "openai", text: "ok"}
	r := NewRouter([]Provider{p}, limiter, time.Second)

	_, _, err := r.Complete(context.Background(), Prompt{User: "first"})
	require.NoError(t, err)

	_, _, err = r.Complete(context.Background(), Prompt{User: "second"})
	var all *AllFailedError
	require.True(t, errors.As(err, &all))
	require.Len(t, all.Attempts, 1)
	assert.ErrorIs(t, all.Attempts[0].Err, ErrBudgetExhausted)
	assert.Equal(t, 1, p.calls)
}

func TestLimiterGlobalBudget(t *testing.T) {
	limiter := NewLimiter(0, 2)

	assert.True(t, limiter.TryAcquire("local"))
	assert.True(t, limiter.TryAcquire("openai"))
	assert.False(t, limiter.TryAcquire("gemini"))
	assert.Equal(t, map[string]int{"local": 1, "openai": 1}, limiter.Usage())
}

func TestLimiterUnlimitedByDefault(t *testing.T) {
	limiter := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, limiter.TryAcquire("local"))
	}
}
