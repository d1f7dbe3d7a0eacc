package feed

import (
	"net/url"

	"newsdigest/internal/region"
)

const searchFeedBase = "https://news.google.com/rss/search"

// recency keeps search feeds limited to the last 24 hours.
const recency = "when:1d"

// Resolve decides the feed source for a request. A custom URL passes
// through untouched; otherwise a localized search-feed URL is built
// from the query and the region's locale parameters.
func Resolve(query string, r region.Region, customURL string) Source {
	if customURL != "" {
		return Source{URL: customURL, Custom: true}
	}
	return Source{URL: buildSearchURL(query, r)}
}

func buildSearchURL(query string, r region.Region) string {
	return searchFeedBase +
		"?q=" + url.QueryEscape(query+" "+recency) +
		"&hl=" + r.Lang +
		"&gl=" + r.Country +
		"&ceid=" + r.FeedID
}

// CombineQuery joins a topic with its English keyword expansion so the
// search matches either form. An empty expansion leaves the topic as is.
func CombineQuery(topic, expanded string) string {
	if expanded == "" {
		return topic
	}
	return topic + " OR " + expanded
}
