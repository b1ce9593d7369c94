package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"jobmatch-backend/internal/llm"
)

const (
	// maxPromptChars bounds request cost; resumes rarely carry signal past this.
	maxPromptChars = 4000

	defaultExperienceLevel = "mid-level"
)

var (
	// ErrMalformedOutput signals the model returned something that is not JSON.
	ErrMalformedOutput = errors.New("model returned malformed output")
	// ErrIncompleteExtraction signals the source text likely lacked a clear resume structure.
	ErrIncompleteExtraction = errors.New("failed to parse resume, please ensure it contains clear job titles and skills")
)

const interpretSystem = `You are a resume parser. Extract structured information from the resume text. Return ONLY valid JSON without markdown, explanations, or code blocks.`

const interpretTemplate = `Parse this resume and return JSON with this exact structure:
{
  "primaryRole": "job title or role",
  "skills": ["skill1", "skill2", "skill3", ...],
  "experienceLevel": "entry-level" | "mid-level" | "senior" | "executive",
  "keywords": ["keyword1", "keyword2", ...]
}

Resume text:
%s`

// Interpreter turns extracted resume text into a ParsedResume via the model.
type Interpreter struct {
	LLM llm.Client
}

// Interpret sends the (truncated) text to the model and validates the result.
func (i *Interpreter) Interpret(ctx context.Context, text string) (ParsedResume, error) {
	text = truncate(strings.TrimSpace(text), maxPromptChars)

	raw, err := i.LLM.Complete(ctx, llm.Request{
		System: interpretSystem,
		Prompt: fmt.Sprintf(interpretTemplate, text),
	})
	if err != nil {
		return ParsedResume{}, err
	}

	var parsed ParsedResume
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ParsedResume{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if strings.TrimSpace(parsed.PrimaryRole) == "" || len(parsed.Skills) == 0 {
		return ParsedResume{}, ErrIncompleteExtraction
	}

	if strings.TrimSpace(parsed.ExperienceLevel) == "" {
		parsed.ExperienceLevel = defaultExperienceLevel
	}
	if parsed.Keywords == nil {
		parsed.Keywords = []string{}
	}

	return parsed, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
