package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vregbot/app/config"
	"vregbot/app/service/dialogue"
	"vregbot/app/service/retrieval"
	"vregbot/app/service/session"

	"github.com/samber/do"
)

type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestServer(t *testing.T, gen dialogue.Generator) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.Retrieval.Strategy = "keyword"
	cfg.Server.Addr = ":0"

	di := do.New()
	t.Cleanup(func() { _ = di.Shutdown() })

	do.ProvideValue(di, cfg)
	do.Provide(di, func(_ *do.Injector) (dialogue.Generator, error) { return gen, nil })
	do.Provide(di, session.New)
	do.Provide(di, retrieval.New)
	do.Provide(di, dialogue.New)
	do.Provide(di, New)

	return do.MustInvoke[*Service](di)
}

func postJSON(t *testing.T, svc *Service, path string, body any) (int, map[string]any) {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := svc.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return resp.StatusCode, parsed
}

func getJSON(t *testing.T, svc *Service, path string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)

	resp, err := svc.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var parsed map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return resp.StatusCode, parsed
}

func TestChatMissingMessage(t *testing.T) {
	svc := newTestServer(t, &fakeGenerator{reply: "ok"})

	status, body := postJSON(t, svc, "/chat", map[string]any{"conversation_id": "c1"})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if body["error"] != "No message received" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestChatConversationFlow(t *testing.T) {
	svc := newTestServer(t, &fakeGenerator{reply: "Visit www.vreg.gov.ng to log in."})

	status, body := postJSON(t, svc, "/chat", map[string]any{"message": "hello", "conversation_id": "c1"})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["asking_for_name"] != true {
		t.Errorf("expected asking_for_name, got %v", body)
	}
	if body["reply"] != "Hello! May I know your name?" {
		t.Errorf("reply = %v", body["reply"])
	}

	status, body = postJSON(t, svc, "/chat", map[string]any{"message": "my name is Chidi", "conversation_id": "c1"})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["name_captured"] != true {
		t.Errorf("expected name_captured, got %v", body)
	}
	if _, present := body["user_name"]; present {
		t.Error("name-capture response must not carry user_name")
	}

	status, body = postJSON(t, svc, "/chat", map[string]any{"message": "I forgot my password", "conversation_id": "c1"})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["user_name"] != "Chidi" {
		t.Errorf("user_name = %v", body["user_name"])
	}
	if body["context_used"] != true {
		t.Errorf("expected context_used, got %v", body)
	}
	reply, _ := body["reply"].(string)
	if !strings.Contains(reply, `href="https://vreg.gov.ng"`) {
		t.Errorf("reply not link-normalized: %q", reply)
	}
	if body["conversation_id"] != "c1" {
		t.Errorf("conversation_id = %v", body["conversation_id"])
	}
}

func TestChatGeneratorFailure(t *testing.T) {
	svc := newTestServer(t, &fakeGenerator{err: errors.New("upstream down")})

	postJSON(t, svc, "/chat", map[string]any{"message": "my name is Chidi", "conversation_id": "c1"})
	status, body := postJSON(t, svc, "/chat", map[string]any{"message": "I forgot my password", "conversation_id": "c1"})

	if status != http.StatusOK {
		t.Fatalf("generator failure must not surface as an error, status = %d", status)
	}
	reply, _ := body["reply"].(string)
	if !strings.Contains(reply, `href="mailto:support@vreg.gov.ng"`) {
		t.Errorf("apology reply missing support link: %q", reply)
	}
	if body["context_used"] != false {
		t.Errorf("expected context_used=false, got %v", body["context_used"])
	}
}

func TestSearch(t *testing.T) {
	svc := newTestServer(t, &fakeGenerator{reply: "ok"})

	status, body := postJSON(t, svc, "/search", map[string]any{})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}

	status, body = postJSON(t, svc, "/search", map[string]any{"query": "how do I request a refund"})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	faqs, ok := body["faqs"].([]any)
	if !ok {
		t.Fatalf("faqs missing: %v", body)
	}
	if len(faqs) == 0 || len(faqs) > 5 {
		t.Fatalf("unexpected faq count %d", len(faqs))
	}

	first, _ := faqs[0].(map[string]any)
	if q, _ := first["question"].(string); !strings.Contains(q, "refund") {
		t.Errorf("unexpected top result: %v", first["question"])
	}
}

func TestHealth(t *testing.T) {
	svc := newTestServer(t, &fakeGenerator{reply: "ok"})

	status, body := getJSON(t, svc, "/health")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["retrieval_strategy"] != "keyword" {
		t.Errorf("retrieval_strategy = %v", body["retrieval_strategy"])
	}
	if count, _ := body["total_faqs"].(float64); count != 23 {
		t.Errorf("total_faqs = %v", body["total_faqs"])
	}
}

func TestProcessText(t *testing.T) {
	svc := newTestServer(t, &fakeGenerator{reply: "ok"})

	status, body := postJSON(t, svc, "/process-text", map[string]any{"text": "write to support@vreg.gov.ng"})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	processed, _ := body["processed_text"].(string)
	if !strings.Contains(processed, `href="mailto:support@vreg.gov.ng"`) {
		t.Errorf("processed_text = %q", processed)
	}
	if body["original_text"] != "write to support@vreg.gov.ng" {
		t.Errorf("original_text = %v", body["original_text"])
	}
}

func TestSessionEndpoints(t *testing.T) {
	svc := newTestServer(t, &fakeGenerator{reply: "ok"})

	status, body := getJSON(t, svc, "/get-session?conversation_id=c1")
	if status != http.StatusOK || body["has_name"] != false {
		t.Fatalf("fresh session: status=%d body=%v", status, body)
	}

	postJSON(t, svc, "/chat", map[string]any{"message": "my name is Chidi", "conversation_id": "c1"})

	_, body = getJSON(t, svc, "/get-session?conversation_id=c1")
	if body["user_name"] != "Chidi" || body["has_name"] != true {
		t.Fatalf("after capture: %v", body)
	}

	status, body = postJSON(t, svc, "/reset-session", map[string]any{"conversation_id": "c1"})
	if status != http.StatusOK || body["message"] != "Session reset successfully" {
		t.Fatalf("reset: status=%d body=%v", status, body)
	}

	_, body = getJSON(t, svc, "/get-session?conversation_id=c1")
	if body["has_name"] != false {
		t.Fatalf("after reset: %v", body)
	}
}
