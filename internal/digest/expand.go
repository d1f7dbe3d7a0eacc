// Package digest orchestrates the retrieval-and-summarization pipeline:
// region resolution, feed fetching, cross-language topic expansion, and
// bilingual structured summarization.
package digest

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"newsdigest/internal/llm"
	"newsdigest/internal/metrics"
)

// Completer is the slice of the provider router the pipeline needs.
type Completer interface {
	Complete(ctx context.Context, p llm.Prompt) (text string, provider string, err error)
}

// Expander widens feed recall for non-Latin-script topics by asking the
// LLM layer for English keyword equivalents.
type Expander struct {
	llm Completer
}

func NewExpander(c Completer) *Expander {
	return &Expander{llm: c}
}

// MaybeExpand returns English keywords for a non-Latin topic, or "" when
// the topic is Latin-script (no LLM call is made) or when expansion
// fails. Expansion failure degrades silently to the original topic.
func (e *Expander) MaybeExpand(ctx context.Context, topic string) string {
	if !needsExpansion(topic) {
		return ""
	}

	prompt := llm.Prompt{
		System: "You translate news search topics into English search keywords.",
		User: "Give 1-2 short English keyword equivalents for this news search topic: " +
			topic + "\nReply with the keywords only, on one line, no punctuation or explanation.",
	}

	text, provider, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("topic expansion failed, using original topic", "topic", topic, "error", err)
		metrics.TopicExpansionsTotal.WithLabelValues("error").Inc()
		return ""
	}

	keywords := strings.Join(strings.Fields(strings.Trim(text, `"'`)), " ")
	slog.Debug("expanded topic", "topic", topic, "keywords", keywords, "provider", provider)
	metrics.TopicExpansionsTotal.WithLabelValues("success").Inc()
	return keywords
}

// needsExpansion reports whether the topic contains letters outside the
// Latin script (CJK and similar).
func needsExpansion(topic string) bool {
	for _, r := range topic {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}
