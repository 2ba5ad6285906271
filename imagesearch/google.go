package imagesearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Google searches images through a Programmable Search Engine.
type Google struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogle needs both the API key and the search engine id. Extra client
// options are appended after the key, e.g. option.WithEndpoint in tests.
func NewGoogle(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*Google, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: GOOGLE_IMAGE_API is not set", domain.ErrMissingCredentials)
	}
	if strings.TrimSpace(cx) == "" {
		return nil, fmt.Errorf("%w: GOOGLE_IMAGE_CX is not set", domain.ErrMissingCredentials)
	}
	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	return &Google{svc: svc, cx: cx}, nil
}

// SearchImage returns the link of the first safe-search photo result.
func (g *Google) SearchImage(ctx context.Context, query string) (string, error) {
	res, err := g.svc.Cse.List().
		Cx(g.cx).
		Q(query).
		SearchType("image").
		Num(1).
		Safe("active").
		ImgType("photo").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: google custom search: %v", domain.ErrImageSearch, err)
	}
	if len(res.Items) == 0 {
		return "", fmt.Errorf("%w: no image results for %q", domain.ErrImageSearch, query)
	}
	if res.Items[0].Link == "" {
		return "", fmt.Errorf("%w: image result missing link", domain.ErrImageSearch)
	}
	return res.Items[0].Link, nil
}
