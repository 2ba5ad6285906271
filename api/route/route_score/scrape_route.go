package route_score

import (
	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/controller/controller_score"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
)

func NewScrapeRouter(ingestion score_interface.IngestionUsecase, group *gin.RouterGroup) {
	ctrl := controller_score.NewScrapeController(ingestion)

	group.GET("/start-scrapping", ctrl.StartScrapping)
	group.GET("/start-scrapping/:max_pieces", ctrl.StartScrappingWithLimit)
	group.GET("/scrapping/status", ctrl.GetStatus)
}
