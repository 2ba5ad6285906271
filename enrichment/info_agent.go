package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/llm"
)

const infoInstructions = `You receive the name of a music composer or of a musical piece.
Give interesting information about the composer or the piece.
If you know nothing about it, answer "No information available".
Answer with JSON only, shaped exactly like:
{"info": "<information about the composer or the piece>"}`

// InfoAgent describes composers and pieces.
type InfoAgent struct {
	gen           Generator
	fallbackModel string
}

func NewInfoAgent(gen Generator, fallbackModel string) *InfoAgent {
	return &InfoAgent{gen: gen, fallbackModel: fallbackModel}
}

func (a *InfoAgent) Describe(ctx context.Context, subject string) (string, error) {
	out, err := a.gen.GenerateWithFallback(ctx, llm.Request{
		System:  infoInstructions,
		Content: []llm.ContentBlock{llm.TextBlock(subject)},
	}, a.fallbackModel)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Info *string `json:"info"`
	}
	if err := json.Unmarshal([]byte(llm.StripCodeFence(out)), &parsed); err != nil {
		return "", fmt.Errorf("%w: info output is not JSON: %v", domain.ErrModelOutput, err)
	}
	if parsed.Info == nil || strings.TrimSpace(*parsed.Info) == "" {
		return "", fmt.Errorf("%w: info output has no info field", domain.ErrModelOutput)
	}
	return *parsed.Info, nil
}
