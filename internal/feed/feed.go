// Package feed resolves and fetches localized news feeds, normalizing
// entries into plain news items.
package feed

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Item is one normalized news entry. Items are created by the fetcher
// and never mutated afterwards.
type Item struct {
	Title     string
	Link      string
	Summary   string
	Published *time.Time
	Source    string // domain of the link host
}

// Source is a resolved feed source. Custom marks a caller-supplied URL,
// which may turn out to be a single article page rather than a feed;
// that reclassification happens at fetch time.
type Source struct {
	URL    string
	Custom bool
}

// FetchError reports a failed feed retrieval or parse. The fetch is a
// single attempt; the caller decides how to surface the failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// makeItemKey hashes title and summary for content-level deduplication.
func makeItemKey(title, summary string) string {
	h := sha1.New()
	h.Write([]byte(strings.ToLower(title + summary)))
	return hex.EncodeToString(h.Sum(nil))
}

// sourceDomain extracts the host of a link, without the www prefix.
func sourceDomain(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}

// stripHTML removes tags and collapses whitespace, leaving plain text.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
