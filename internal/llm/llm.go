package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Request carries one structured prompt expecting a JSON-only answer.
type Request struct {
	System string
	Prompt string
}

// Client abstracts the hosted model used for resume interpretation and job
// scoring. Implementations must return valid JSON or an error.
type Client interface {
	Complete(ctx context.Context, req Request) (json.RawMessage, error)
}

// ErrNotConfigured is returned when no provider credential is available.
var ErrNotConfigured = errors.New("llm provider is not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, req Request) (json.RawMessage, error) {
	_ = ctx
	_ = req
	return nil, ErrNotConfigured
}
