package resume

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"jobmatch-backend/internal/llm"
)

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (json.RawMessage, error) {
	f.lastPrompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.response), nil
}

func TestInterpret_ParsesCompleteResume(t *testing.T) {
	client := &fakeLLM{response: `{
		"primaryRole": "Backend Engineer",
		"skills": ["Go", "Postgres"],
		"experienceLevel": "senior",
		"keywords": ["api", "distributed systems"]
	}`}
	interpreter := &Interpreter{LLM: client}

	parsed, err := interpreter.Interpret(context.Background(), "ten years of backend work...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.PrimaryRole != "Backend Engineer" {
		t.Fatalf("primaryRole = %q", parsed.PrimaryRole)
	}
	if parsed.ExperienceLevel != "senior" {
		t.Fatalf("experienceLevel = %q", parsed.ExperienceLevel)
	}
	if len(parsed.Skills) != 2 || len(parsed.Keywords) != 2 {
		t.Fatalf("unexpected skills/keywords: %v / %v", parsed.Skills, parsed.Keywords)
	}
}

func TestInterpret_AppliesDefaults(t *testing.T) {
	client := &fakeLLM{response: `{"primaryRole": "Designer", "skills": ["Figma"]}`}
	interpreter := &Interpreter{LLM: client}

	parsed, err := interpreter.Interpret(context.Background(), "a designer resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.ExperienceLevel != defaultExperienceLevel {
		t.Fatalf("experienceLevel = %q, want %q", parsed.ExperienceLevel, defaultExperienceLevel)
	}
	if parsed.Keywords == nil || len(parsed.Keywords) != 0 {
		t.Fatalf("keywords should default to an empty slice, got %#v", parsed.Keywords)
	}
}

func TestInterpret_IncompleteExtraction(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"missing role", `{"primaryRole": "", "skills": ["Go"]}`},
		{"missing skills", `{"primaryRole": "Engineer", "skills": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			interpreter := &Interpreter{LLM: &fakeLLM{response: tc.response}}
			_, err := interpreter.Interpret(context.Background(), "some resume text")
			if !errors.Is(err, ErrIncompleteExtraction) {
				t.Fatalf("expected ErrIncompleteExtraction, got %v", err)
			}
		})
	}
}

func TestInterpret_MalformedOutput(t *testing.T) {
	interpreter := &Interpreter{LLM: &fakeLLM{response: `Sure! Here is the JSON you asked for:`}}
	_, err := interpreter.Interpret(context.Background(), "some resume text")
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestInterpret_PropagatesClientError(t *testing.T) {
	interpreter := &Interpreter{LLM: &fakeLLM{err: llm.ErrNotConfigured}}
	_, err := interpreter.Interpret(context.Background(), "some resume text")
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestInterpret_TruncatesLongText(t *testing.T) {
	client := &fakeLLM{response: `{"primaryRole": "Engineer", "skills": ["Go"]}`}
	interpreter := &Interpreter{LLM: client}

	long := strings.Repeat("x", maxPromptChars+500)
	if _, err := interpreter.Interpret(context.Background(), long); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(client.lastPrompt, strings.Repeat("x", maxPromptChars+1)) {
		t.Fatal("prompt still contains untruncated resume text")
	}
	if !strings.Contains(client.lastPrompt, strings.Repeat("x", maxPromptChars)) {
		t.Fatal("prompt lost the truncated resume text")
	}
}
