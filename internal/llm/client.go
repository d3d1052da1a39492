package llm

import (
	"context"
)

// LLMClient is the opaque text generation capability. Implementations hold no
// per-request state and are safe for concurrent use.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
