// Package enrichment turns catalog subjects and score PDFs into model-written
// descriptions and note transcriptions.
package enrichment

import (
	"context"

	"github.com/scorecatalog/mutopia-catalog/llm"
)

// Generator is the model call the agents depend on; *llm.Client satisfies it.
type Generator interface {
	GenerateWithFallback(ctx context.Context, req llm.Request, fallbackModel string) (string, error)
}
