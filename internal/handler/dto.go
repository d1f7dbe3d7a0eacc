package handler

import (
	"newsdigest/internal/digest"
	"newsdigest/internal/feed"
)

const publishedLayout = "2006-01-02 15:04"

type newsItemResponse struct {
	Title     string  `json:"title"`
	Link      string  `json:"link"`
	Summary   string  `json:"summary"`
	Published *string `json:"published"`
	Source    string  `json:"source"`
}

type sectionResponse struct {
	ThingsToWatch string `json:"things_to_watch"`
	Takeaway      string `json:"takeaway"`
}

type takeawayResponse struct {
	EN *sectionResponse `json:"en"`
	ZH *sectionResponse `json:"zh"`
}

type digestResponse struct {
	Items    []newsItemResponse `json:"items"`
	Source   string             `json:"source"`
	Takeaway *takeawayResponse  `json:"takeaway"`
	AIError  *string            `json:"ai_error"`
}

type regionResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func toDigestResponse(result *digest.Result) digestResponse {
	items := make([]newsItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toItemResponse(item))
	}

	res := digestResponse{
		Items:  items,
		Source: result.SourceURL,
	}
	if result.Summary != nil {
		res.Takeaway = &takeawayResponse{
			EN: toSectionResponse(result.Summary.EN),
			ZH: toSectionResponse(result.Summary.ZH),
		}
	}
	if result.SummaryErr != "" {
		res.AIError = &result.SummaryErr
	}
	return res
}

func toItemResponse(item feed.Item) newsItemResponse {
	res := newsItemResponse{
		Title:   item.Title,
		Link:    item.Link,
		Summary: item.Summary,
		Source:  item.Source,
	}
	if item.Published != nil {
		published := item.Published.Format(publishedLayout)
		res.Published = &published
	}
	return res
}

func toSectionResponse(s *digest.Section) *sectionResponse {
	if s == nil {
		return nil
	}
	return &sectionResponse{ThingsToWatch: s.ThingsToWatch, Takeaway: s.Takeaway}
}
