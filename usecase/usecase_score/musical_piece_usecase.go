package usecase_score

import (
	"context"
	"fmt"
	"time"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
)

type musicalPieceUsecase struct {
	repo    score_interface.MusicalPieceRepository
	gate    *DedupGate
	timeout time.Duration
}

func NewMusicalPieceUsecase(repo score_interface.MusicalPieceRepository, timeout time.Duration) score_interface.MusicalPieceUsecase {
	return &musicalPieceUsecase{
		repo:    repo,
		gate:    NewDedupGate(repo),
		timeout: timeout,
	}
}

func (uc *musicalPieceUsecase) GetAll(ctx context.Context) ([]*score_models.MusicalPiece, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.GetAll(ctx)
}

func (uc *musicalPieceUsecase) GetByID(ctx context.Context, id string) (*score_models.MusicalPiece, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	piece, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, fmt.Errorf("piece %s: %w", id, domain.ErrNotFound)
	}
	return piece, nil
}

func (uc *musicalPieceUsecase) GetByTitle(ctx context.Context, title string) ([]*score_models.MusicalPiece, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.GetByTitle(ctx, title)
}

func (uc *musicalPieceUsecase) GetByComposer(ctx context.Context, composer string) ([]*score_models.MusicalPiece, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.GetByComposer(ctx, composer)
}

func (uc *musicalPieceUsecase) GetByStyle(ctx context.Context, style string) ([]*score_models.MusicalPiece, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.GetByStyle(ctx, style)
}

func (uc *musicalPieceUsecase) GetByInstrument(ctx context.Context, instrument string) ([]*score_models.MusicalPiece, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.GetByInstrument(ctx, instrument)
}

func (uc *musicalPieceUsecase) Search(ctx context.Context, query string) ([]*score_models.MusicalPiece, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.Search(ctx, query)
}

func (uc *musicalPieceUsecase) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.Count(ctx)
}

func (uc *musicalPieceUsecase) GetAllStyles(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.GetAllStyles(ctx)
}

func (uc *musicalPieceUsecase) GetAllInstruments(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.GetAllInstruments(ctx)
}

func (uc *musicalPieceUsecase) GetAllComposers(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.GetAllComposers(ctx)
}

func (uc *musicalPieceUsecase) Create(ctx context.Context, piece *score_models.MusicalPiece) (string, error) {
	if piece == nil {
		return "", fmt.Errorf("%w: empty body", domain.ErrInvalidRecord)
	}
	if err := piece.Validate(); err != nil {
		return "", err
	}
	// ids and cached notes are owned by the store
	piece.ID = ""
	piece.Notes = nil

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.gate.Admit(ctx, piece)
}

func (uc *musicalPieceUsecase) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	return uc.repo.DeleteAll(ctx)
}
