package mutopia

import (
	"fmt"
	"net/url"
	"strings"
)

const DefaultBaseURL = "https://www.mutopiaproject.org/"

// Client discovers and extracts piece pages of one Mutopia site.
type Client struct {
	baseURL *url.URL
	fetcher *Fetcher
}

func NewClient(baseURL string, fetcher *Fetcher) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if fetcher == nil {
		fetcher = NewFetcher(FetcherConfig{})
	}
	return &Client{baseURL: u, fetcher: fetcher}, nil
}
