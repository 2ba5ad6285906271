package score_interface

import (
	"context"

	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
)

// PieceSource discovers and reads piece-detail pages of the scraped site.
type PieceSource interface {
	DiscoverPieceURLs(ctx context.Context) ([]string, error)
	ExtractPiece(ctx context.Context, pageURL string) (*score_models.MusicalPiece, error)
}
