package mutopia

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	pieceListPage   = "piece-list.html"
	pieceInfoMarker = "piece-info.cgi"
)

// DiscoverPieceURLs lists every piece-detail page linked from the piece list,
// resolved against the site root, in first-seen order without duplicates.
func (c *Client) DiscoverPieceURLs(ctx context.Context) ([]string, error) {
	listURL := c.baseURL.ResolveReference(&url.URL{Path: pieceListPage})
	doc, err := c.fetcher.FetchDocument(ctx, listURL.String())
	if err != nil {
		return nil, fmt.Errorf("fetch piece list: %w", err)
	}
	return pieceLinks(doc, c.baseURL), nil
}

func pieceLinks(doc *html.Node, base *url.URL) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, a := range findAll(doc, isTag(atom.A)) {
		href := getAttr(a, "href")
		if !strings.Contains(href, pieceInfoMarker) {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref).String()
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		urls = append(urls, abs)
	}
	return urls
}
