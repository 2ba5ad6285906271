// Package mutopia reads the Mutopia Project catalog: it discovers piece-detail
// pages from the piece list and turns each page into a catalog record.
package mutopia

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ErrPageTooLarge is returned for bodies over FetcherConfig.MaxBytes; such
// pages are rejected rather than parsed in part.
var ErrPageTooLarge = errors.New("page exceeds size limit")

// FetcherConfig configures page retrieval.
type FetcherConfig struct {
	Timeout   time.Duration // per request, default 20s
	MaxBytes  int64         // response body cap, default 5MB
	UserAgent string
}

func (c *FetcherConfig) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 5 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "MutopiaA4Scraper/1.0 (personal use)"
	}
}

// Fetcher downloads HTML pages and parses them into node trees, decoding the
// body from whatever charset the server or the page declares.
type Fetcher struct {
	client *http.Client
	config FetcherConfig
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	cfg.defaults()
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}

// FetchDocument GETs pageURL and parses the body. Non-2xx statuses are errors.
func (f *Fetcher) FetchDocument(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http get %s: status %d", pageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}
	if int64(len(data)) > f.config.MaxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrPageTooLarge, pageURL, f.config.MaxBytes)
	}

	body, err := charset.NewReader(bytes.NewReader(data), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", pageURL, err)
	}
	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}
