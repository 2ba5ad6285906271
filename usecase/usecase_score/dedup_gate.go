package usecase_score

import (
	"context"
	"fmt"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
)

// DedupGate decides whether a piece is new before it is inserted. A stored
// piece with the same music_id_number wins; pdf_url is only consulted when
// the music id is absent or unknown.
type DedupGate struct {
	repo score_interface.MusicalPieceRepository
}

func NewDedupGate(repo score_interface.MusicalPieceRepository) *DedupGate {
	return &DedupGate{repo: repo}
}

// Existing returns the stored duplicate of piece, or nil.
func (g *DedupGate) Existing(ctx context.Context, piece *score_models.MusicalPiece) (*score_models.MusicalPiece, error) {
	if piece.MusicIDNumber != "" {
		found, err := g.repo.GetByMusicIDNumber(ctx, piece.MusicIDNumber)
		if err != nil {
			return nil, fmt.Errorf("lookup by music id: %w", err)
		}
		if found != nil {
			return found, nil
		}
	}
	if piece.PDFURL != "" {
		found, err := g.repo.GetByPDFURL(ctx, piece.PDFURL)
		if err != nil {
			return nil, fmt.Errorf("lookup by pdf url: %w", err)
		}
		return found, nil
	}
	return nil, nil
}

// Admit inserts piece unless it is a duplicate, in which case the returned
// error is a *domain.DuplicateError.
func (g *DedupGate) Admit(ctx context.Context, piece *score_models.MusicalPiece) (string, error) {
	existing, err := g.Existing(ctx, piece)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", &domain.DuplicateError{ExistingID: existing.ID}
	}
	return g.repo.Insert(ctx, piece)
}
