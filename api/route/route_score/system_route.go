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

func NewSystemRouter(
	timeout time.Duration,
	client mongo.Client,
	db mongo.Database,
	collection string,
	checkDB bool,
	faviconPath string,
	log *logger.Logger,
	group *gin.RouterGroup,
) {
	repo := repository_score.NewMusicalPieceRepository(db, collection, log)

	uc := usecase_score.NewHealthUsecase(client, repo, checkDB, timeout, log)
	ctrl := controller_score.NewSystemController(uc, faviconPath)

	group.GET("/", ctrl.Root)
	group.HEAD("/", ctrl.RootHead)
	group.GET("/health", ctrl.Health)
	group.HEAD("/health", ctrl.HealthHead)
	group.GET("/favicon.ico", ctrl.Favicon)
}
