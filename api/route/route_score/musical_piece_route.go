package route_score

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/controller/controller_score"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo"
	"github.com/scorecatalog/mutopia-catalog/repository/repository_score"
	"github.com/scorecatalog/mutopia-catalog/usecase/usecase_score"
)

// NewMusicalPieceRouter registers the catalog reads. The write routes are
// only registered when admin is non-nil.
func NewMusicalPieceRouter(
	timeout time.Duration,
	db mongo.Database,
	collection string,
	log *logger.Logger,
	group *gin.RouterGroup,
	admin gin.HandlerFunc,
) {
	repo := repository_score.NewMusicalPieceRepository(db, collection, log)

	uc := usecase_score.NewMusicalPieceUsecase(repo, timeout)
	ctrl := controller_score.NewMusicalPieceController(uc)

	piecesGroup := group.Group("/pieces")
	{
		piecesGroup.GET("", ctrl.GetPieces)
		piecesGroup.GET("/number", ctrl.GetPiecesNumber)
		piecesGroup.GET("/title/:title", ctrl.GetPiecesByTitle)
		piecesGroup.GET("/styles/:style", ctrl.GetPiecesByStyle)
		piecesGroup.GET("/composers/:composer", ctrl.GetPiecesByComposer)
		piecesGroup.GET("/instruments/:instrument", ctrl.GetPiecesByInstrument)
		piecesGroup.GET("/search/:query", ctrl.SearchPieces)
		piecesGroup.GET("/:piece_id", ctrl.GetPiece)
		if admin != nil {
			piecesGroup.POST("", admin, ctrl.CreatePiece)
			piecesGroup.DELETE("", admin, ctrl.DeletePieces)
		}
	}

	group.GET("/styles", ctrl.GetStyles)
	group.GET("/instruments", ctrl.GetInstruments)
	group.GET("/composers", ctrl.GetComposers)
}
