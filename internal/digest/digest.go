package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"newsdigest/internal/feed"
	"newsdigest/internal/region"
)

// Request is one digest request. Topic defaults to "trending" when
// empty; Region accepts a code, a name, or free-form location text.
type Request struct {
	Topic     string
	Region    string
	CustomURL string
}

// Result is the terminal artifact for one request. Summary is nil when
// summarization failed entirely; SummaryErr carries the reason, or a
// partial-degradation note when only the translation failed.
type Result struct {
	Items      []feed.Item
	SourceURL  string
	Summary    *Summary
	SummaryErr string
}

// Fetcher is the slice of the feed layer the service needs.
type Fetcher interface {
	Fetch(ctx context.Context, src feed.Source) ([]feed.Item, error)
}

// Service wires the pipeline together: region catalog, feed fetcher,
// topic expander, and summarizer. It holds no per-request state.
type Service struct {
	catalog    *region.Catalog
	fetcher    Fetcher
	expander   *Expander
	summarizer *Summarizer
}

func NewService(catalog *region.Catalog, fetcher Fetcher, expander *Expander, summarizer *Summarizer) *Service {
	return &Service{
		catalog:    catalog,
		fetcher:    fetcher,
		expander:   expander,
		summarizer: summarizer,
	}
}

const defaultTopic = "trending"

// Build runs the full pipeline for one request. The only hard failure
// is a feed *feed.FetchError; every summarization problem is captured
// inside the Result instead.
func (s *Service) Build(ctx context.Context, req Request) (*Result, error) {
	topic := req.Topic
	if topic == "" {
		topic = defaultTopic
	}
	r := s.catalog.Resolve(req.Region)

	query := topic
	if req.CustomURL == "" {
		// Expansion feeds back into the search query, so it has to
		// happen before the fetch.
		if keywords := s.expander.MaybeExpand(ctx, topic); keywords != "" {
			query = feed.CombineQuery(topic, keywords)
		}
	}

	src := feed.Resolve(query, r, req.CustomURL)
	items, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	summary, summaryErr := s.summarize(ctx, items)
	return assemble(items, src.URL, summary, summaryErr), nil
}

// summarize produces the bilingual summary, degrading rather than
// failing: no items, provider exhaustion, and format mismatches all
// turn into an error string; a translation-only failure still keeps
// the English half.
func (s *Service) summarize(ctx context.Context, items []feed.Item) (*Summary, string) {
	if len(items) == 0 {
		return nil, "no news items to summarize"
	}

	en, err := s.summarizer.SummarizeEnglish(ctx, items)
	if err != nil {
		slog.Error("summarization failed", "error", err)
		return nil, summaryErrorText(err)
	}

	zh, err := s.summarizer.TranslateToChinese(ctx, en)
	if err != nil {
		slog.Warn("Chinese translation failed, returning English only", "error", err)
		return &Summary{EN: en}, fmt.Sprintf("Chinese translation unavailable: %v", err)
	}

	return &Summary{EN: en, ZH: zh}, ""
}

func summaryErrorText(err error) string {
	var formatErr *SummaryFormatError
	if errors.As(err, &formatErr) {
		return "AI summary could not be parsed from the provider response"
	}
	return err.Error()
}

// assemble combines the fetched items, provenance, and summary outcome
// into the final payload. Pure; never fails.
func assemble(items []feed.Item, sourceURL string, summary *Summary, summaryErr string) *Result {
	if items == nil {
		items = []feed.Item{}
	}
	return &Result{
		Items:      items,
		SourceURL:  sourceURL,
		Summary:    summary,
		SummaryErr: summaryErr,
	}
}
