package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fetchPage extracts a single news item from an article page: the page
// title and a meta-description equivalent. A page lacking both yields
// nil without an error.
func (f *Fetcher) fetchPage(ctx context.Context, pageURL string) (*Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
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
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	title := extractPageTitle(doc)
	desc := extractPageDescription(doc)
	if title == "" && desc == "" {
		return nil, nil
	}
	if title == "" {
		title = desc
	}

	return &Item{
		Title:   title,
		Link:    pageURL,
		Summary: desc,
		Source:  sourceDomain(pageURL),
	}, nil
}

func extractPageTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractPageDescription(doc *goquery.Document) string {
	selectors := []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
		`meta[name="twitter:description"]`,
	}
	for _, selector := range selectors {
		if desc, ok := doc.Find(selector).Attr("content"); ok {
			if desc = strings.TrimSpace(desc); desc != "" {
				return desc
			}
		}
	}
	return ""
}
