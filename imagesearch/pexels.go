// Package imagesearch finds an illustrative image link for a text query.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scorecatalog/mutopia-catalog/domain"
)

const pexelsAPIURL = "https://api.pexels.com/v1"

// Pexels searches photos on the Pexels API.
type Pexels struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	perPage    int
}

// NewPexels fails when apiKey is empty; there is no built-in key.
func NewPexels(apiKey string) (*Pexels, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: PEXELS_API_KEY is not set", domain.ErrMissingCredentials)
	}
	return &Pexels{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiURL:     pexelsAPIURL,
		apiKey:     apiKey,
		perPage:    15,
	}, nil
}

type pexelsResponse struct {
	Photos []struct {
		URL string `json:"url"`
		Src struct {
			Original string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

// SearchImage returns the original-size link of the first photo, falling back
// to the photo page URL.
func (p *Pexels) SearchImage(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(p.perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: pexels request: %v", domain.ErrImageSearch, err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: pexels request failed: %v", domain.ErrImageSearch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: pexels returned %d: %s", domain.ErrImageSearch, resp.StatusCode, body)
	}

	var out pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode pexels response: %v", domain.ErrImageSearch, err)
	}
	if len(out.Photos) == 0 {
		return "", fmt.Errorf("%w: no photos for %q", domain.ErrImageSearch, query)
	}
	photo := out.Photos[0]
	if photo.Src.Original != "" {
		return photo.Src.Original, nil
	}
	if photo.URL != "" {
		return photo.URL, nil
	}
	return "", fmt.Errorf("%w: first photo has no link", domain.ErrImageSearch)
}
