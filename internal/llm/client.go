package llm

import (
	"context"
)

// Client is the text generation capability the pipeline consumes. Calls are
// synchronous request/response; callers own failure handling.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
