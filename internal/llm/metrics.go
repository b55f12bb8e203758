package llm

import (
	"context"
	"time"

	"github.com/soreahq/sorea/internal/metrics"
)

type instrumented struct {
	inner Client
}

// WithMetrics wraps a client so every call records its latency and status.
func WithMetrics(c Client) Client {
	return &instrumented{inner: c}
}

func (m *instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := m.inner.Generate(ctx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordLLMLatency(status, time.Since(start))
	return out, err
}
