package digest

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"newsdigest/internal/feed"
	"newsdigest/internal/llm"
	"newsdigest/internal/metrics"
)

// Section is one structured summary block parsed from an LLM response.
type Section struct {
	ThingsToWatch string
	Takeaway      string
}

// Summary pairs the English summary with its Chinese counterpart. ZH is
// nil when the translation pass failed; the two languages degrade
// independently.
type Summary struct {
	EN *Section
	ZH *Section
}

// SummaryFormatError reports a provider response that did not contain
// the expected section headers.
type SummaryFormatError struct {
	Response string
}

func (e *SummaryFormatError) Error() string {
	return "summary response did not match the expected section format"
}

// Literal section headers the prompt instructs the model to emit. The
// extraction depends on them appearing verbatim.
const (
	watchHeaderEN  = "Things to Watch Today"
	watchHeaderZH  = "今天需要注意的事情"
	takeawayHeader = "Take Away"
)

const analystSystem = "You are a professional news analyst skilled at extracting key insights from multiple news articles."

// Summarizer turns fetched headlines into structured bilingual sections.
type Summarizer struct {
	llm       Completer
	maxTitles int
}

func NewSummarizer(c Completer, maxTitles int) *Summarizer {
	return &Summarizer{llm: c, maxTitles: maxTitles}
}

// SummarizeEnglish produces the English summary from the item titles.
func (s *Summarizer) SummarizeEnglish(ctx context.Context, items []feed.Item) (*Section, error) {
	titles := make([]string, 0, s.maxTitles)
	for _, item := range items {
		if len(titles) >= s.maxTitles {
			break
		}
		titles = append(titles, item.Title)
	}

	text, _, err := s.llm.Complete(ctx, llm.Prompt{
		System: analystSystem,
		User:   buildSummaryPrompt(titles),
	})
	if err != nil {
		metrics.SummariesTotal.WithLabelValues("en", "error").Inc()
		return nil, err
	}

	section, err := parseSections(text, watchHeaderEN)
	if err != nil {
		metrics.SummariesTotal.WithLabelValues("en", "error").Inc()
		return nil, err
	}
	metrics.SummariesTotal.WithLabelValues("en", "success").Inc()
	return section, nil
}

// TranslateToChinese re-renders an English summary in Traditional
// Chinese through a second, independent provider call.
func (s *Summarizer) TranslateToChinese(ctx context.Context, en *Section) (*Section, error) {
	text, _, err := s.llm.Complete(ctx, llm.Prompt{
		System: analystSystem,
		User:   buildTranslationPrompt(en),
	})
	if err != nil {
		metrics.SummariesTotal.WithLabelValues("zh", "error").Inc()
		return nil, err
	}

	section, err := parseSections(text, watchHeaderZH)
	if err != nil {
		metrics.SummariesTotal.WithLabelValues("zh", "error").Inc()
		return nil, err
	}
	metrics.SummariesTotal.WithLabelValues("zh", "success").Inc()
	return section, nil
}

func buildSummaryPrompt(titles []string) string {
	var b strings.Builder
	b.WriteString("Here are today's latest news headlines:\n\n")
	for i, title := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	b.WriteString("\nPlease summarize based on these headlines:\n")
	b.WriteString("1. Things to watch today (2-3 key points, concise and clear)\n")
	b.WriteString("2. A key takeaway (one sentence summarizing the most important insight)\n\n")
	b.WriteString("Respond in English in exactly the following format:\n")
	fmt.Fprintf(&b, "【%s】\n1. ...\n2. ...\n3. ...\n\n【%s】\n...", watchHeaderEN, takeawayHeader)
	return b.String()
}

func buildTranslationPrompt(en *Section) string {
	var b strings.Builder
	b.WriteString("Translate the following news summary into Traditional Chinese.\n")
	b.WriteString("Keep the meaning and the itemized structure; translate naturally, not word by word.\n\n")
	fmt.Fprintf(&b, "【%s】\n%s\n\n【%s】\n%s\n\n", watchHeaderEN, en.ThingsToWatch, takeawayHeader, en.Takeaway)
	b.WriteString("Respond in exactly the following format:\n")
	fmt.Fprintf(&b, "【%s】\n...\n\n【%s】\n...", watchHeaderZH, takeawayHeader)
	return b.String()
}

// parseSections extracts the two labeled sections from a response. At
// least one expected header must be present; a response with neither is
// a *SummaryFormatError rather than a silently empty summary.
func parseSections(text, watchHeader string) (*Section, error) {
	watch := extractSection(text, watchHeader)
	takeaway := extractSection(text, takeawayHeader)
	if watch == "" && takeaway == "" {
		return nil, &SummaryFormatError{Response: text}
	}
	return &Section{ThingsToWatch: watch, Takeaway: takeaway}, nil
}

// extractSection finds a labeled block and returns the text up to the
// next header or the end of the response. Bracket style varies between
// models, so plain [name] and "name:" forms are accepted as fallbacks.
func extractSection(text, name string) string {
	quoted := regexp.QuoteMeta(name)
	patterns := []string{
		`(?is)【` + quoted + `】\s*(.*?)\s*(?:【|$)`,
		`(?is)\[` + quoted + `\]\s*(.*?)\s*(?:\[|$)`,
		`(?is)` + quoted + `[:：]\s*(.*?)\s*(?:\n\n|$)`,
	}
	for _, pattern := range patterns {
		if m := regexp.MustCompile(pattern).FindStringSubmatch(text); m != nil {
			if section := strings.TrimSpace(m[1]); section != "" {
				return section
			}
		}
	}
	return ""
}
