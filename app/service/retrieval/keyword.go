package retrieval

import (
	"context"
	"strings"

	"vregbot/app/faq"

	"github.com/elliotchance/pie/v2"
)

// KeywordStrategy scores an entry by how many of its keywords occur as
// substrings of the lower-cased query. Zero-dependency fallback for when the
// embedding backend is unavailable.
type KeywordStrategy struct {
	entries []faq.Entry
}

func NewKeywordStrategy(entries []faq.Entry) *KeywordStrategy {
	return &KeywordStrategy{entries: entries}
}

func (s *KeywordStrategy) Name() string {
	return "keyword"
}

func (s *KeywordStrategy) Query(_ context.Context, text string, limit int) []Result {
	query := strings.ToLower(text)

	results := make([]Result, 0, len(s.entries))
	for _, entry := range s.entries {
		score := 0
		for _, keyword := range entry.Keywords {
			if strings.Contains(query, strings.ToLower(keyword)) {
				score++
			}
		}

		if score == 0 {
			continue
		}

		results = append(results, toResult(entry, float64(score)))
	}

	results = pie.SortStableUsing(results, func(a, b Result) bool {
		return a.Score > b.Score
	})

	return truncate(results, limit)
}
