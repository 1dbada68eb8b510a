// Package dialogue orchestrates a conversation turn: session lookup, name
// capture, FAQ retrieval, prompt assembly, generation and link
// normalization.
package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vregbot/app/service/linkify"
	"vregbot/app/service/names"
	"vregbot/app/service/retrieval"
	"vregbot/app/service/session"

	"github.com/samber/do"
)

const contextTopK = 3

const (
	askNameMessage      = "May I know your name?"
	helloAskNameMessage = "Hello! May I know your name?"

	greetingReplyTemplate = "Hello %s! It's nice to meet you. How can I assist you today with the VREG platform? " +
		"Do you have any questions, need help with vehicle registration, or perhaps you're experiencing some issues " +
		"that you'd like me to help resolve?"

	apologyMessage = "I apologize, but I'm having trouble processing your request right now. " +
		"Please contact support@vreg.gov.ng for assistance."
)

var greetingWords = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}

type Service struct {
	sessionSvc   *session.Service
	retrievalSvc *retrieval.Service
	generator    Generator
	extractor    *names.Extractor
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		sessionSvc:   do.MustInvoke[*session.Service](di),
		retrievalSvc: do.MustInvoke[*retrieval.Service](di),
		generator:    do.MustInvoke[Generator](di),
		extractor:    names.NewExtractor(names.DefaultStopWords),
	}, nil
}

// ProcessTurn handles one message for the given conversation. It never
// fails: generator errors degrade to a fixed apology and retrieval errors to
// an empty context.
func (s *Service) ProcessTurn(ctx context.Context, conversationID, message string) *TurnResult {
	sess := s.sessionSvc.GetOrCreate(conversationID)

	if !sess.HasName() {
		return s.handleNameCapture(conversationID, message)
	}

	results := s.retrievalSvc.Query(ctx, message, contextTopK)
	contextBlock := buildContextBlock(results)

	rawReply, err := s.generator.Generate(ctx, buildSystemPrompt(sess.UserName), buildUserPrompt(contextBlock, message))
	if err != nil {
		slog.Error("Failed to generate reply",
			"conversation_id", conversationID,
			"error", err)

		return &TurnResult{
			Reply:          linkify.Normalize(apologyMessage),
			RawReply:       apologyMessage,
			RelevantFAQs:   []retrieval.Result{},
			UserName:       sess.UserName,
			ConversationID: conversationID,
		}
	}

	return &TurnResult{
		Reply:          linkify.Normalize(rawReply),
		RawReply:       rawReply,
		RelevantFAQs:   results,
		ContextUsed:    len(results) > 0,
		UserName:       sess.UserName,
		ConversationID: conversationID,
	}
}

// handleNameCapture covers the turns before a name is known. These replies
// bypass retrieval entirely.
func (s *Service) handleNameCapture(conversationID, message string) *TurnResult {
	if name, ok := s.extractor.Extract(message); ok {
		// Compare-and-set so racing turns on one conversation agree on a
		// single name; the greeting uses whichever capture won.
		if won := s.sessionSvc.SetNameIfAbsent(conversationID, name); won != "" {
			name = won
		}

		rawReply := fmt.Sprintf(greetingReplyTemplate, name)

		return &TurnResult{
			Reply:          linkify.Normalize(rawReply),
			RawReply:       rawReply,
			RelevantFAQs:   []retrieval.Result{},
			UserName:       name,
			NameCaptured:   true,
			ConversationID: conversationID,
		}
	}

	rawReply := askNameMessage
	if containsGreeting(message) {
		rawReply = helloAskNameMessage
	}

	return &TurnResult{
		Reply:          rawReply,
		RawReply:       rawReply,
		RelevantFAQs:   []retrieval.Result{},
		AskingForName:  true,
		ConversationID: conversationID,
	}
}

func containsGreeting(message string) bool {
	lowered := strings.ToLower(message)

	for _, greeting := range greetingWords {
		if strings.Contains(lowered, greeting) {
			return true
		}
	}

	return false
}
