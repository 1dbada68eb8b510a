package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"vregbot/app/faq"

	"github.com/elliotchance/pie/v2"
	"github.com/tmc/langchaingo/embeddings"
)

// EmbeddingStrategy ranks entries by cosine similarity between the query
// vector and per-entry vectors computed once at construction time.
type EmbeddingStrategy struct {
	entries  []faq.Entry
	vectors  [][]float32
	embedder embeddings.Embedder
}

// NewEmbeddingStrategy embeds every entry as "Question: <q>\nAnswer: <a>".
// Queries are embedded the same way at lookup time.
func NewEmbeddingStrategy(ctx context.Context, embedder embeddings.Embedder, entries []faq.Entry) (*EmbeddingStrategy, error) {
	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		texts = append(texts, docText(entry))
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed dataset: %w", err)
	}

	if len(vectors) != len(entries) {
		return nil, fmt.Errorf("embedding count mismatch: got %d vectors for %d entries", len(vectors), len(entries))
	}

	return &EmbeddingStrategy{
		entries:  entries,
		vectors:  vectors,
		embedder: embedder,
	}, nil
}

func (s *EmbeddingStrategy) Name() string {
	return "embedding"
}

func (s *EmbeddingStrategy) Query(ctx context.Context, text string, limit int) []Result {
	queryVector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		slog.Error("Failed to embed query", "error", err)
		return []Result{}
	}

	results := make([]Result, 0, len(s.entries))
	for i, entry := range s.entries {
		results = append(results, toResult(entry, cosineSimilarity(queryVector, s.vectors[i])))
	}

	results = pie.SortStableUsing(results, func(a, b Result) bool {
		return a.Score > b.Score
	})

	return truncate(results, limit)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
