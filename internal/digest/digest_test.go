package digest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdigest/internal/feed"
	"newsdigest/internal/region"
)

// fakeFetcher records the resolved source and returns canned items.
type fakeFetcher struct {
	items []feed.Item
	err   error
	src   feed.Source
}

func (f *fakeFetcher) Fetch(ctx context.Context, src feed.Source) ([]feed.Item, error) {
	f.src = src
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func newService(fetcher *fakeFetcher, llmFake *scriptedLLM) *Service {
	return NewService(
		region.NewCatalog(),
		fetcher,
		NewExpander(llmFake),
		NewSummarizer(llmFake, 10),
	)
}

func TestBuildFullDigest(t *testing.T) {
	fetcher := &fakeFetcher{items: newsItems(5)}
	llmFake := &scriptedLLM{responses: []string{goodEnglishResponse, goodChineseResponse}}
	svc := newService(fetcher, llmFake)

	result, err := svc.Build(context.Background(), Request{Topic: "taiwan stocks", Region: "tw"})
	require.NoError(t, err)

	assert.Len(t, result.Items, 5)
	assert.Equal(t,
		"https://news.google.com/rss/search?q=taiwan+stocks+when%3A1d&hl=zh-TW&gl=TW&ceid=TW:zh-Hant",
		result.SourceURL)
	require.NotNil(t, result.Summary)
	require.NotNil(t, result.Summary.EN)
	require.NotNil(t, result.Summary.ZH)
	assert.Contains(t, result.Summary.EN.Takeaway, "Semiconductor")
	assert.Contains(t, result.Summary.ZH.Takeaway, "半導體")
	assert.Empty(t, result.SummaryErr)
}

func TestBuildExpandsNonLatinTopic(t *testing.T) {
	fetcher := &fakeFetcher{items: newsItems(3)}
	llmFake := &scriptedLLM{responses: []string{"TSMC", goodEnglishResponse, goodChineseResponse}}
	svc := newService(fetcher, llmFake)

	_, err := svc.Build(context.Background(), Request{Topic: "台積電", Region: "tw"})
	require.NoError(t, err)

	// The fetched search URL carries both the original topic and the
	// expanded keywords, joined disjunctively.
	assert.Contains(t, fetcher.src.URL, "%E5%8F%B0%E7%A9%8D%E9%9B%BB") // 台積電
	assert.Contains(t, fetcher.src.URL, "OR+TSMC")
	require.Len(t, llmFake.prompts, 3)
	assert.Contains(t, llmFake.prompts[0].User, "keyword")
}

func TestBuildAsciiTopicSkipsExpansionCall(t *testing.T) {
	fetcher := &fakeFetcher{items: newsItems(3)}
	llmFake := &scriptedLLM{responses: []string{goodEnglishResponse, goodChineseResponse}}
	svc := newService(fetcher, llmFake)

	_, err := svc.Build(context.Background(), Request{Topic: "ai policy", Region: "us"})
	require.NoError(t, err)

	// Exactly two LLM calls: summary and translation, no expansion.
	assert.Len(t, llmFake.prompts, 2)
}

func TestBuildCustomURLSkipsExpansion(t *testing.T) {
	fetcher := &fakeFetcher{items: newsItems(1)}
	llmFake := &scriptedLLM{responses: []string{goodEnglishResponse, goodChineseResponse}}
	svc := newService(fetcher, llmFake)

	result, err := svc.Build(context.Background(), Request{
		Topic:     "台積電",
		CustomURL: "https://example.com/article",
	})
	require.NoError(t, err)

	assert.True(t, fetcher.src.Custom)
	assert.Equal(t, "https://example.com/article", result.SourceURL)
	assert.Len(t, llmFake.prompts, 2, "custom URLs have no search query to expand")
}

func TestBuildPartialTranslationFailure(t *testing.T) {
	fetcher := &fakeFetcher{items: newsItems(5)}
	llmFake := &scriptedLLM{
		responses: []string{goodEnglishResponse},
		errs:      []error{nil, errors.New("all providers failed")},
	}
	svc := newService(fetcher, llmFake)

	result, err := svc.Build(context.Background(), Request{Topic: "taiwan stocks", Region: "tw"})
	require.NoError(t, err)

	require.NotNil(t, result.Summary)
	require.NotNil(t, result.Summary.EN, "English half survives a translation failure")
	assert.Nil(t, result.Summary.ZH)
	assert.Contains(t, result.SummaryErr, "Chinese translation unavailable")
}

func TestBuildSummarizationFailureKeepsItems(t *testing.T) {
	fetcher := &fakeFetcher{items: newsItems(5)}
	llmFake := &scriptedLLM{errs: []error{errors.New("all providers failed")}}
	svc := newService(fetcher, llmFake)

	result, err := svc.Build(context.Background(), Request{Topic: "taiwan stocks", Region: "tw"})
	require.NoError(t, err)

	assert.Len(t, result.Items, 5)
	assert.Nil(t, result.Summary)
	assert.NotEmpty(t, result.SummaryErr)
}

func TestBuildMalformedSummaryResponse(t *testing.T) {
	fetcher := &fakeFetcher{items: newsItems(2)}
	llmFake := &scriptedLLM{responses: []string{"chatter with no headers at all"}}
	svc := newService(fetcher, llmFake)

	result, err := svc.Build(context.Background(), Request{Topic: "ai", Region: "us"})
	require.NoError(t, err)

	assert.Nil(t, result.Summary)
	assert.Contains(t, result.SummaryErr, "could not be parsed")
}

func TestBuildFetchErrorIsTerminal(t *testing.T) {
	fetchErr := &feed.FetchError{URL: "https://news.google.com/rss/search", Err: errors.New("timeout")}
	fetcher := &fakeFetcher{err: fetchErr}
	llmFake := &scriptedLLM{}
	svc := newService(fetcher, llmFake)

	_, err := svc.Build(context.Background(), Request{Topic: "anything", Region: "us"})

	var fe *feed.FetchError
	require.True(t, errors.As(err, &fe))
}

func TestBuildEmptyTopicDefaultsToTrending(t *testing.T) {
	fetcher := &fakeFetcher{items: newsItems(1)}
	llmFake := &scriptedLLM{responses: []string{goodEnglishResponse, goodChineseResponse}}
	svc := newService(fetcher, llmFake)

	_, err := svc.Build(context.Background(), Request{Region: "us"})
	require.NoError(t, err)
	assert.Contains(t, fetcher.src.URL, "q=trending")
}

func TestBuildNoItemsMeansNoSummaryCalls(t *testing.T) {
	fetcher := &fakeFetcher{items: []feed.Item{}}
	llmFake := &scriptedLLM{}
	svc := newService(fetcher, llmFake)

	result, err := svc.Build(context.Background(), Request{Topic: "ai", Region: "us"})
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Nil(t, result.Summary)
	assert.Equal(t, "no news items to summarize", result.SummaryErr)
	assert.Empty(t, llmFake.prompts)
}
