package mutopia

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoMetadataTable is returned for pages without a result-table; such pages
// are not piece-detail pages.
var ErrNoMetadataTable = errors.New("no metadata table found on piece page")

const mojibakeEnDash = "â\u0080\u0093"

// labelFields maps the bold labels of the metadata table to record setters.
// Labels not listed here are ignored.
var labelFields = map[string]func(*score_models.MusicalPiece, string){
	"Instrument(s)":       func(p *score_models.MusicalPiece, v string) { p.Instruments = v },
	"Style":               func(p *score_models.MusicalPiece, v string) { p.Style = v },
	"Opus":                func(p *score_models.MusicalPiece, v string) { p.Opus = v },
	"Date of composition": func(p *score_models.MusicalPiece, v string) { p.DateOfComposition = v },
	"Source":              func(p *score_models.MusicalPiece, v string) { p.Source = v },
	"Copyright":           func(p *score_models.MusicalPiece, v string) { p.Copyright = v },
	"Last updated":        func(p *score_models.MusicalPiece, v string) { p.LastUpdated = v },
	"Music ID Number":     func(p *score_models.MusicalPiece, v string) { p.MusicIDNumber = v },
}

// ExtractPiece fetches one piece-detail page and extracts its record.
func (c *Client) ExtractPiece(ctx context.Context, pageURL string) (*score_models.MusicalPiece, error) {
	doc, err := c.fetcher.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ExtractMetadata(doc, pageURL)
}

// ExtractMetadata builds a validated record from a parsed piece-detail page.
// pageURL is the base for resolving the PDF link.
func ExtractMetadata(doc *html.Node, pageURL string) (*score_models.MusicalPiece, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	piece := &score_models.MusicalPiece{}
	if h2 := findFirst(doc, isTag(atom.H2)); h2 != nil {
		piece.Title = joinedText(h2, "")
	}
	if h4 := findFirst(doc, isTag(atom.H4)); h4 != nil {
		piece.Composer = cleanComposer(joinedText(h4, " "))
	}

	table := findFirst(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && hasClass(n, "result-table")
	})
	if table == nil {
		return nil, ErrNoMetadataTable
	}

	for _, td := range findAll(table, isTag(atom.Td)) {
		label := findFirst(td, isTag(atom.B))
		if label == nil {
			continue
		}
		name := strings.TrimRight(joinedText(label, ""), ":")
		set, known := labelFields[name]
		if !known {
			continue
		}
		set(piece, cellValue(td, label))
	}

	if href, ok := pdfLink(doc); ok {
		if ref, err := url.Parse(href); err == nil {
			piece.PDFURL = base.ResolveReference(ref).String()
			piece.Format = score_models.FormatPDF
		}
	}

	if err := piece.Validate(); err != nil {
		return nil, err
	}
	return piece, nil
}

func cleanComposer(text string) string {
	if strings.HasPrefix(strings.ToLower(text), "by ") {
		text = strings.TrimSpace(text[3:])
	}
	return strings.ReplaceAll(text, mojibakeEnDash, "-")
}

// cellValue prefers the text node right after the label and falls back to
// the whole cell with the label text removed once. A blank text node before
// markup, as in "<b>Date:</b> <i>1888</i>", also takes the fallback.
func cellValue(td, label *html.Node) string {
	const cutset = " \n\t\""
	if next := label.NextSibling; next != nil && next.Type == html.TextNode {
		if value := strings.Trim(next.Data, cutset); value != "" {
			return value
		}
	}
	value := strings.Replace(joinedText(td, " "), joinedText(label, " "), "", 1)
	return strings.Trim(value, cutset)
}

// pdfLink finds the first anchor whose text mentions both "a4" and "pdf".
func pdfLink(doc *html.Node) (string, bool) {
	a := findFirst(doc, func(n *html.Node) bool {
		if n.DataAtom != atom.A {
			return false
		}
		text := strings.ToLower(joinedText(n, " "))
		return strings.Contains(text, "a4") && strings.Contains(text, "pdf")
	})
	if a == nil {
		return "", false
	}
	return getAttr(a, "href"), true
}
