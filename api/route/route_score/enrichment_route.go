package route_score

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/controller/controller_score"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo"
	"github.com/scorecatalog/mutopia-catalog/repository/repository_score"
	"github.com/scorecatalog/mutopia-catalog/usecase/usecase_score"
)

// EnrichmentAdapters are the model and image clients behind the AI routes.
// Any of them may be nil.
type EnrichmentAdapters struct {
	Info           score_interface.InfoGenerator
	Transcriber    score_interface.NotesTranscriber
	ComposerImages score_interface.ImageSearcher
}

func NewEnrichmentRouter(
	timeout, modelTimeout time.Duration,
	db mongo.Database,
	collection string,
	adapters EnrichmentAdapters,
	log *logger.Logger,
	group *gin.RouterGroup,
) {
	repo := repository_score.NewMusicalPieceRepository(db, collection, log)

	uc := usecase_score.NewEnrichmentUsecase(
		repo,
		adapters.Info,
		adapters.Transcriber,
		adapters.ComposerImages,
		timeout, modelTimeout,
		log,
	)
	ctrl := controller_score.NewEnrichmentController(uc)

	group.GET("/pieces/get_notes_with_ai/:piece_id", ctrl.GetNotesWithAI)
	group.GET("/composer/info/:composer_name", ctrl.GetComposerInfo)
	group.GET("/piece_info/:piece_name", ctrl.GetPieceInfo)
}
