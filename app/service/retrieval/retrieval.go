// Package retrieval ranks FAQ entries by relevance to a free-text query.
// Two interchangeable strategies implement the same contract; retrieval is
// always best-effort and never blocks a conversation.
package retrieval

import (
	"context"
	"fmt"

	"vregbot/app/faq"
	"vregbot/app/service/linkify"
)

type Result struct {
	Question        string  `json:"question"`
	Answer          string  `json:"answer"`
	AnswerWithLinks string  `json:"answer_with_links"`
	Category        string  `json:"category"`
	Score           float64 `json:"relevance_score"`
}

// Strategy answers relevance queries over the fixed dataset. Query is total:
// internal failures degrade to an empty result set, results come back in
// non-increasing score order with ties kept in dataset order, and limit
// truncates but never pads.
type Strategy interface {
	Name() string
	Query(ctx context.Context, text string, limit int) []Result
}

// docText is the fixed encoded unit for the embedding strategy: the
// question and answer concatenated, matching what queries are compared to.
func docText(entry faq.Entry) string {
	return fmt.Sprintf("Question: %s\nAnswer: %s", entry.Question, entry.Answer)
}

func toResult(entry faq.Entry, score float64) Result {
	return Result{
		Question:        entry.Question,
		Answer:          entry.Answer,
		AnswerWithLinks: linkify.Normalize(entry.Answer),
		Category:        entry.Category,
		Score:           score,
	}
}

func truncate(results []Result, limit int) []Result {
	if limit >= 0 && len(results) > limit {
		return results[:limit]
	}

	return results
}
