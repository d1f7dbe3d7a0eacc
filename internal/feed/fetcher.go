package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdigest/internal/metrics"
)

// Fetcher retrieves feeds and single article pages. It holds no
// per-request state and is safe for concurrent use.
type Fetcher struct {
	client   *http.Client
	maxItems int
}

func NewFetcher(timeout time.Duration, maxItems int) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxItems: maxItems,
	}
}

// Fetch retrieves the source and returns normalized items in feed order,
// deduplicated and capped at the configured maximum.
//
// For a regular search feed a network or parse failure is a *FetchError.
// A custom URL is first treated as a feed; when that yields no parsable
// entries the same URL is refetched as a single article page, and a page
// that cannot be extracted is reported as zero items, not an error.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]Item, error) {
	items, err := f.fetchFeed(ctx, src.URL)
	if err == nil && len(items) > 0 {
		metrics.FeedFetchesTotal.WithLabelValues("feed", "success").Inc()
		metrics.FeedItemsReturned.Observe(float64(len(items)))
		return items, nil
	}

	if !src.Custom {
		metrics.FeedFetchesTotal.WithLabelValues("feed", "error").Inc()
		if err == nil {
			err = errors.New("feed contained no entries")
		}
		return nil, &FetchError{URL: src.URL, Err: err}
	}

	if err != nil {
		slog.Debug("custom URL is not a parsable feed, trying single-page extraction",
			"url", src.URL, "error", err)
	}
	item, pageErr := f.fetchPage(ctx, src.URL)
	if pageErr != nil || item == nil {
		if pageErr != nil {
			slog.Warn("single-page extraction failed", "url", src.URL, "error", pageErr)
		}
		metrics.FeedFetchesTotal.WithLabelValues("page", "empty").Inc()
		return []Item{}, nil
	}
	metrics.FeedFetchesTotal.WithLabelValues("page", "success").Inc()
	metrics.FeedItemsReturned.Observe(1)
	return []Item{*item}, nil
}

func (f *Fetcher) fetchFeed(ctx context.Context, feedURL string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	seenLinks := map[string]struct{}{}
	seenContent := map[string]struct{}{}
	items := make([]Item, 0, f.maxItems)

	for _, entry := range parsed.Items {
		if len(items) >= f.maxItems {
			break
		}
		if entry.Title == "" || entry.Link == "" {
			continue
		}
		if _, dup := seenLinks[entry.Link]; dup {
			continue
		}
		seenLinks[entry.Link] = struct{}{}

		summary := stripHTML(entry.Description)
		key := makeItemKey(entry.Title, summary)
		if _, dup := seenContent[key]; dup {
			continue
		}
		seenContent[key] = struct{}{}

		items = append(items, Item{
			Title:     entry.Title,
			Link:      entry.Link,
			Summary:   summary,
			Published: entry.PublishedParsed,
			Source:    sourceDomain(entry.Link),
		})
	}

	return items, nil
}

const userAgent = "newsdigest/1.0 (+https://github.com/newsdigest)"
