package score_interface

import (
	"context"

	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
)

type MusicalPieceRepository interface {
	Insert(ctx context.Context, piece *score_models.MusicalPiece) (string, error)
	DeleteAll(ctx context.Context) (int64, error)

	GetByID(ctx context.Context, id string) (*score_models.MusicalPiece, error)
	GetByMusicIDNumber(ctx context.Context, musicID string) (*score_models.MusicalPiece, error)
	GetByPDFURL(ctx context.Context, pdfURL string) (*score_models.MusicalPiece, error)

	GetAll(ctx context.Context) ([]*score_models.MusicalPiece, error)
	GetByTitle(ctx context.Context, title string) ([]*score_models.MusicalPiece, error)
	GetByComposer(ctx context.Context, composer string) ([]*score_models.MusicalPiece, error)
	GetByStyle(ctx context.Context, style string) ([]*score_models.MusicalPiece, error)
	GetByInstrument(ctx context.Context, instrument string) ([]*score_models.MusicalPiece, error)
	Search(ctx context.Context, query string) ([]*score_models.MusicalPiece, error)
	Count(ctx context.Context) (int64, error)

	GetAllStyles(ctx context.Context) ([]string, error)
	GetAllInstruments(ctx context.Context) ([]string, error)
	GetAllComposers(ctx context.Context) ([]string, error)

	UpdateNotes(ctx context.Context, id string, notes []score_models.NoteEvent) error
}
