// Package llm defines the answer gateway the Q&A service depends on.
// Concrete providers live in subpackages.
package llm

import (
	"context"
	"errors"
)

var ErrEmptyAnswer = errors.New("model returned no answer")

type Answer struct {
	Text     string
	Metadata map[string]any
}

// Gateway makes one call per question. Implementations do not retry.
type Gateway interface {
	Ask(ctx context.Context, question, questionContext string) (Answer, error)
}

type GatewayFunc func(ctx context.Context, question, questionContext string) (Answer, error)

func (f GatewayFunc) Ask(ctx context.Context, question, questionContext string) (Answer, error) {
	return f(ctx, question, questionContext)
}
