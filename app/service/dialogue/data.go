package dialogue

import (
	"context"

	"vregbot/app/service/retrieval"
)

// Generator is the external text-generation collaborator. It may fail; the
// controller absorbs those failures.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// TurnResult is the structured outcome of one conversation turn.
type TurnResult struct {
	Reply          string
	RawReply       string
	RelevantFAQs   []retrieval.Result
	ContextUsed    bool
	UserName       string
	AskingForName  bool
	NameCaptured   bool
	ConversationID string
}
