package score_interface

import (
	"context"

	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
)

type MusicalPieceUsecase interface {
	GetAll(ctx context.Context) ([]*score_models.MusicalPiece, error)
	// GetByID returns domain.ErrNotFound when no piece has the id.
	GetByID(ctx context.Context, id string) (*score_models.MusicalPiece, error)
	GetByTitle(ctx context.Context, title string) ([]*score_models.MusicalPiece, error)
	GetByComposer(ctx context.Context, composer string) ([]*score_models.MusicalPiece, error)
	GetByStyle(ctx context.Context, style string) ([]*score_models.MusicalPiece, error)
	GetByInstrument(ctx context.Context, instrument string) ([]*score_models.MusicalPiece, error)
	Search(ctx context.Context, query string) ([]*score_models.MusicalPiece, error)
	Count(ctx context.Context) (int64, error)

	GetAllStyles(ctx context.Context) ([]string, error)
	GetAllInstruments(ctx context.Context) ([]string, error)
	GetAllComposers(ctx context.Context) ([]string, error)

	// Create stores a piece through the dedup gate; a duplicate yields a
	// *domain.DuplicateError carrying the existing id.
	Create(ctx context.Context, piece *score_models.MusicalPiece) (string, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// IngestionUsecase runs the scrape pipeline, one run at a time.
type IngestionUsecase interface {
	// Start launches a background run. maxPieces <= 0 uses the configured
	// default. While a run is active it returns that run's report together
	// with domain.ErrScrapeRunning.
	Start(maxPieces int) (*score_models.ScrapeRunReport, error)
	// Status returns the active or most recent run, or nil before the first.
	Status() *score_models.ScrapeRunReport
}

type EnrichmentUsecase interface {
	GetNotes(ctx context.Context, pieceID string) ([]score_models.NoteEvent, error)
	ComposerInfo(ctx context.Context, composer string) (*score_models.ComposerPieceInfo, error)
	PieceInfo(ctx context.Context, piece string) (*score_models.PieceInfo, error)
}

type HealthUsecase interface {
	Check(ctx context.Context) *score_models.HealthReport
}
