package usecase_score

import (
	"context"
	"time"

	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo"
)

type healthUsecase struct {
	client  mongo.Client
	repo    score_interface.MusicalPieceRepository
	checkDB bool
	timeout time.Duration
	log     *logger.Logger
}

// NewHealthUsecase builds the health check. client may be nil when the store
// was never initialized. With checkDB off the store is never contacted.
func NewHealthUsecase(client mongo.Client, repo score_interface.MusicalPieceRepository, checkDB bool, timeout time.Duration, log *logger.Logger) score_interface.HealthUsecase {
	return &healthUsecase{client: client, repo: repo, checkDB: checkDB, timeout: timeout, log: log}
}

func (uc *healthUsecase) Check(ctx context.Context) *score_models.HealthReport {
	report := &score_models.HealthReport{Status: "ok"}
	if !uc.checkDB {
		report.DB = score_models.DBStatusSkipped
		return report
	}
	if uc.client == nil {
		report.DB = score_models.DBStatusNotInitialized
		return report
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if err := uc.client.Ping(ctx); err != nil {
		uc.log.Warn("database ping failed", "error", err)
		report.DB = score_models.DBStatusUnhealthy
		report.Pieces = &score_models.PiecesHealth{Status: score_models.PiecesStatusUnknown}
		return report
	}
	report.DB = score_models.DBStatusOK

	count, err := uc.repo.Count(ctx)
	switch {
	case err != nil:
		uc.log.Warn("counting pieces failed", "error", err)
		report.Pieces = &score_models.PiecesHealth{Status: score_models.PiecesStatusUnknown}
	case count > 0:
		report.Pieces = &score_models.PiecesHealth{Status: score_models.PiecesStatusPresent, Count: &count}
	default:
		report.Pieces = &score_models.PiecesHealth{Status: score_models.PiecesStatusEmpty, Count: &count}
	}
	return report
}
