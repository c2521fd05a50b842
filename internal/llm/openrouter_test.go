package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yuanbopang/subscription-manager/internal/config"
)

func newClient(apiURL string) *OpenRouterClient {
	return NewOpenRouterClient(&config.Config{
		OpenRouterAPIKey: "test-key",
		OpenRouterAPIURL: apiURL,
		OpenRouterModel:  "test-model",
	})
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"service_name\":\"Netflix\"}"}}]}`))
	}))
	defer srv.Close()

	out, err := newClient(srv.URL).Complete(context.Background(), "parse this", "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(out, "Netflix") {
		t.Errorf("content = %q", out)
	}
	if authHeader != "Bearer test-key" {
		t.Errorf("authorization = %q", authHeader)
	}
	if got.Model != "test-model" {
		t.Errorf("model = %q", got.Model)
	}
	if got.Temperature != 0.1 || got.MaxTokens != 500 {
		t.Errorf("sampling params = %v/%d", got.Temperature, got.MaxTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if s, ok := got.Messages[0].Content.(string); !ok || s != "parse this" {
		t.Errorf("text-only content should be a plain string, got %T", got.Messages[0].Content)
	}
}

func TestCompleteAttachesImageAsDataURI(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	if _, err := newClient(srv.URL).Complete(context.Background(), "parse", "aGVsbG8="); err != nil {
		t.Fatalf("complete: %v", err)
	}

	messages := raw["messages"].([]interface{})
	parts, ok := messages[0].(map[string]interface{})["content"].([]interface{})
	if !ok || len(parts) != 2 {
		t.Fatalf("content with image must be a two-part array, got %+v", messages)
	}
	image := parts[1].(map[string]interface{})
	url := image["image_url"].(map[string]interface{})["url"].(string)
	if !strings.HasPrefix(url, "data:image/jpeg;base64,aGVsbG8=") {
		t.Errorf("image url = %q", url)
	}
}

func TestCompleteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newClient(srv.URL).Complete(context.Background(), "x", ""); err == nil {
		t.Error("non-2xx status must surface as an error")
	}

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer empty.Close()

	if _, err := newClient(empty.URL).Complete(context.Background(), "x", ""); err == nil {
		t.Error("empty choices must surface as an error")
	}

	noKey := NewOpenRouterClient(&config.Config{OpenRouterAPIURL: srv.URL})
	if _, err := noKey.Complete(context.Background(), "x", ""); err == nil {
		t.Error("missing api key must surface as an error")
	}
}
