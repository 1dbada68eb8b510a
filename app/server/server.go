// Package server exposes the conversational backend over HTTP and,
// optionally, as MCP tools over stdio.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vregbot/app/config"
	"vregbot/app/faq"
	"vregbot/app/service/dialogue"
	"vregbot/app/service/linkify"
	"vregbot/app/service/retrieval"
	"vregbot/app/service/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConversationID = "default"
	searchTopK            = 5
	shutdownTimeout       = 5 * time.Second
)

type Service struct {
	cfg          *config.Config
	app          *fiber.App
	dialogueSvc  *dialogue.Service
	retrievalSvc *retrieval.Service
	sessionSvc   *session.Service
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:          do.MustInvoke[*config.Config](di),
		dialogueSvc:  do.MustInvoke[*dialogue.Service](di),
		retrievalSvc: do.MustInvoke[*retrieval.Service](di),
		sessionSvc:   do.MustInvoke[*session.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app.Use(recover.New())
	s.registerRoutes()

	return s, nil
}

func (s *Service) registerRoutes() {
	s.app.Post("/chat", s.handleChat)
	s.app.Post("/search", s.handleSearch)
	s.app.Get("/health", s.handleHealth)
	s.app.Post("/process-text", s.handleProcessText)
	s.app.Post("/reset-session", s.handleResetSession)
	s.app.Get("/get-session", s.handleGetSession)
}

func (s *Service) Run(ctx context.Context) {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info("HTTP server listening", "addr", s.cfg.Server.Addr)
		return s.app.Listen(s.cfg.Server.Addr)
	})

	group.Go(func() error {
		<-ctx.Done()
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("HTTP server stopped", "error", err)
	}
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

func (s *Service) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Message == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "No message received"})
	}

	if req.ConversationID == "" {
		req.ConversationID = defaultConversationID
	}

	result := s.dialogueSvc.ProcessTurn(c.UserContext(), req.ConversationID, req.Message)

	response := fiber.Map{
		"reply":           result.Reply,
		"raw_reply":       result.RawReply,
		"relevant_faqs":   result.RelevantFAQs,
		"context_used":    result.ContextUsed,
		"conversation_id": result.ConversationID,
	}

	switch {
	case result.AskingForName:
		response["asking_for_name"] = true
	case result.NameCaptured:
		response["name_captured"] = true
	default:
		response["user_name"] = result.UserName
	}

	return c.JSON(response)
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Service) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Query == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "No query provided"})
	}

	results := s.retrievalSvc.Query(c.UserContext(), req.Query, searchTopK)

	return c.JSON(fiber.Map{"faqs": results})
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":               "healthy",
		"retrieval_strategy":   s.retrievalSvc.StrategyName(),
		"total_faqs":           faq.Count(),
		"hyperlink_processing": "enabled",
		"session_support":      "enabled",
		"active_sessions":      s.sessionSvc.Count(),
	})
}

type processTextRequest struct {
	Text string `json:"text"`
}

func (s *Service) handleProcessText(c *fiber.Ctx) error {
	var req processTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Text == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "No text provided"})
	}

	return c.JSON(fiber.Map{
		"original_text":  req.Text,
		"processed_text": linkify.Normalize(req.Text),
	})
}

type resetSessionRequest struct {
	ConversationID string `json:"conversation_id"`
}

func (s *Service) handleResetSession(c *fiber.Ctx) error {
	var req resetSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.ConversationID == "" {
		req.ConversationID = defaultConversationID
	}

	s.sessionSvc.ResetName(req.ConversationID)

	return c.JSON(fiber.Map{"message": "Session reset successfully"})
}

func (s *Service) handleGetSession(c *fiber.Ctx) error {
	id := c.Query("conversation_id", defaultConversationID)

	snapshot, ok := s.sessionSvc.Snapshot(id)
	if !ok || !snapshot.HasName() {
		return c.JSON(fiber.Map{"user_name": nil, "has_name": false})
	}

	return c.JSON(fiber.Map{"user_name": snapshot.UserName, "has_name": true})
}
