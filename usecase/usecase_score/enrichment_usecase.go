package usecase_score

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"golang.org/x/sync/singleflight"
)

// enrichmentUsecase serves the model-backed endpoints. info, transcriber and
// composerImages may be nil when their credentials are not configured; the
// matching calls then fail with a model or credentials error.
type enrichmentUsecase struct {
	repo           score_interface.MusicalPieceRepository
	info           score_interface.InfoGenerator
	transcriber    score_interface.NotesTranscriber
	composerImages score_interface.ImageSearcher
	timeout        time.Duration
	modelTimeout   time.Duration
	log            *logger.Logger

	// transcriptions coalesces concurrent requests for the same piece.
	transcriptions singleflight.Group
}

func NewEnrichmentUsecase(
	repo score_interface.MusicalPieceRepository,
	info score_interface.InfoGenerator,
	transcriber score_interface.NotesTranscriber,
	composerImages score_interface.ImageSearcher,
	timeout, modelTimeout time.Duration,
	log *logger.Logger,
) score_interface.EnrichmentUsecase {
	return &enrichmentUsecase{
		repo:           repo,
		info:           info,
		transcriber:    transcriber,
		composerImages: composerImages,
		timeout:        timeout,
		modelTimeout:   modelTimeout,
		log:            log,
	}
}

// GetNotes returns the cached transcription of a piece, transcribing and
// caching it on first request.
func (uc *enrichmentUsecase) GetNotes(ctx context.Context, pieceID string) ([]score_models.NoteEvent, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	piece, err := uc.repo.GetByID(lookupCtx, pieceID)
	cancel()
	if err != nil {
		return nil, err
	}
	if piece == nil {
		return nil, fmt.Errorf("piece %s: %w", pieceID, domain.ErrNotFound)
	}
	if piece.HasNotes() {
		return piece.Notes, nil
	}
	if strings.TrimSpace(piece.PDFURL) == "" {
		return nil, domain.ErrPDFMissing
	}
	if uc.transcriber == nil {
		return nil, fmt.Errorf("%w: model provider is not configured", domain.ErrModelUnavailable)
	}

	v, err, shared := uc.transcriptions.Do(piece.ID, func() (interface{}, error) {
		// a disconnecting caller must not abort the work other callers share
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.modelTimeout)
		defer cancel()

		notes, err := uc.transcriber.Transcribe(ctx, piece.PDFURL)
		if err != nil {
			return nil, err
		}
		if err := uc.repo.UpdateNotes(ctx, piece.ID, notes); err != nil {
			return nil, fmt.Errorf("cache notes: %w", err)
		}
		uc.log.Info("notes transcribed", "piece_id", piece.ID, "events", len(notes))
		return notes, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		uc.log.Debug("notes transcription shared", "piece_id", piece.ID)
	}
	return v.([]score_models.NoteEvent), nil
}

// ComposerInfo describes a composer and attaches a portrait link.
func (uc *enrichmentUsecase) ComposerInfo(ctx context.Context, composer string) (*score_models.ComposerPieceInfo, error) {
	info, err := uc.describe(ctx, composer)
	if err != nil {
		return nil, err
	}
	if uc.composerImages == nil {
		return nil, fmt.Errorf("%w: composer image search is not configured", domain.ErrMissingCredentials)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	link, err := uc.composerImages.SearchImage(ctx, composer)
	if err != nil {
		return nil, err
	}
	return &score_models.ComposerPieceInfo{Info: info, ImageURL: link}, nil
}

func (uc *enrichmentUsecase) PieceInfo(ctx context.Context, piece string) (*score_models.PieceInfo, error) {
	info, err := uc.describe(ctx, piece)
	if err != nil {
		return nil, err
	}
	return &score_models.PieceInfo{Info: info}, nil
}

func (uc *enrichmentUsecase) describe(ctx context.Context, subject string) (string, error) {
	if uc.info == nil {
		return "", fmt.Errorf("%w: model provider is not configured", domain.ErrModelUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, uc.modelTimeout)
	defer cancel()
	return uc.info.Describe(ctx, subject)
}
