package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"jobmatch-backend/internal/llm"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("key", "", time.Second); err == nil {
		t.Fatal("expected error for empty model")
	}
	if _, err := NewClient("", "gpt-4o-mini", time.Second); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured for empty key, got %v", err)
	}
	client, err := NewClient("key", "gpt-4o-mini", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.httpClient.Timeout <= 0 {
		t.Fatal("expected a default timeout")
	}
}

type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestOpenAI(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	target, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	client, err := NewClient("test-key", "gpt-4o-mini", 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.httpClient = &http.Client{Transport: rewriteTransport{target: target}}
	return client
}

func TestComplete_ReturnsContentJSON(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	client := newTestOpenAI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"primaryRole": "Engineer"}`}},
			},
		})
	}))

	raw, err := client.Complete(context.Background(), llm.Request{System: "be brief", Prompt: "parse this"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"primaryRole": "Engineer"}` {
		t.Fatalf("raw = %s", raw)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody.ResponseFormat.Type != "json_object" {
		t.Fatalf("response_format = %q", gotBody.ResponseFormat.Type)
	}
	if gotBody.Temperature == nil || *gotBody.Temperature != 0.3 {
		t.Fatalf("temperature = %v", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", gotBody.Messages)
	}
}

func TestComplete_RejectsNonJSONContent(t *testing.T) {
	client := newTestOpenAI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Sure, here you go!"}},
			},
		})
	}))

	if _, err := client.Complete(context.Background(), llm.Request{Prompt: "parse"}); err == nil {
		t.Fatal("expected error for non-JSON content")
	}
}

func TestComplete_SurfacesAPIError(t *testing.T) {
	client := newTestOpenAI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "quota exceeded", "type": "insufficient_quota"},
		})
	}))

	_, err := client.Complete(context.Background(), llm.Request{Prompt: "parse"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected quota error, got %v", err)
	}
}
