// Package llm is a small client for the Anthropic Messages API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/logger"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-haiku-latest"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 4096
)

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client sends single-turn requests; it keeps no conversation state.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", domain.ErrMissingCredentials)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}, nil
}

// Model is the primary model used when a request names none.
func (c *Client) Model() string { return c.model }

// ProviderError is a non-2xx answer from the model provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("model provider http %d: %s", e.StatusCode, e.Body)
}

// Is makes every provider failure match domain.ErrModelUnavailable.
func (e *ProviderError) Is(target error) bool {
	return target == domain.ErrModelUnavailable
}

// IsPermissionDenied reports whether err is a provider 403, the signal that
// the configured model is not allowed for this key.
func IsPermissionDenied(err error) bool {
	var perr *ProviderError
	return errors.As(err, &perr) && perr.StatusCode == http.StatusForbidden
}

// ContentBlock is one user-turn content part.
type ContentBlock struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *DocumentSource `json:"source,omitempty"`
}

type DocumentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// PDFBlock wraps base64-encoded PDF bytes.
func PDFBlock(base64Data string) ContentBlock {
	return ContentBlock{
		Type:   "document",
		Source: &DocumentSource{Type: "base64", MediaType: "application/pdf", Data: base64Data},
	}
}

type Request struct {
	Model   string
	System  string
	Content []ContentBlock
}

type message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate runs one request and returns the concatenated text output.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	body := messagesRequest{
		Model:     model,
		MaxTokens: c.maxTokens,
		System:    req.System,
		Messages:  []message{{Role: "user", Content: req.Content}},
	}

	raw, err := c.doOnce(ctx, "/v1/messages", body)
	if err != nil {
		return "", err
	}
	var out messagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrModelOutput, err)
	}
	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// GenerateWithFallback runs req and, when the provider refuses the model with
// a 403, retries exactly once on fallbackModel. Other failures are returned
// as is.
func (c *Client) GenerateWithFallback(ctx context.Context, req Request, fallbackModel string) (string, error) {
	out, err := c.Generate(ctx, req)
	if err == nil || !IsPermissionDenied(err) || fallbackModel == "" {
		return out, err
	}
	c.log.Warn("model permission denied, retrying on fallback",
		"model", firstNonEmpty(req.Model, c.model),
		"fallback_model", fallbackModel,
	)
	req.Model = fallbackModel
	return c.Generate(ctx, req)
}

func (c *Client) doOnce(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrModelUnavailable, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
