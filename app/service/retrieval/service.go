package retrieval

import (
	"context"
	"log/slog"
	"time"

	"vregbot/app/config"
	"vregbot/app/faq"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const indexBuildTimeout = time.Minute

// Service owns the active retrieval strategy. When the embedding index
// cannot be built it degrades to the keyword strategy with no change in
// contract for callers.
type Service struct {
	strategy Strategy
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	entries := faq.Entries()

	var strategy Strategy = NewKeywordStrategy(entries)

	if cfg.Retrieval.Strategy == "embedding" {
		embedding, err := buildEmbeddingStrategy(cfg, entries)
		if err != nil {
			slog.Warn("Falling back to keyword retrieval", "error", err)
		} else {
			strategy = embedding
		}
	}

	slog.Info("Relevance index ready",
		"strategy", strategy.Name(),
		"entries", len(entries))

	return &Service{strategy: strategy}, nil
}

func buildEmbeddingStrategy(cfg *config.Config, entries []faq.Entry) (*EmbeddingStrategy, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.Retrieval.EmbeddingBaseURL),
		openai.WithToken(cfg.Retrieval.EmbeddingToken),
		openai.WithEmbeddingModel(cfg.Retrieval.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexBuildTimeout)
	defer cancel()

	return NewEmbeddingStrategy(ctx, embedder, entries)
}

// Query delegates to the active strategy.
func (s *Service) Query(ctx context.Context, text string, limit int) []Result {
	return s.strategy.Query(ctx, text, limit)
}

// StrategyName reports the active strategy, exposed by the health endpoint.
func (s *Service) StrategyName() string {
	return s.strategy.Name()
}
