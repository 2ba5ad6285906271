package controller_score

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/controller"
	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
)

type ScrapeController struct {
	IngestionUsecase score_interface.IngestionUsecase
}

func NewScrapeController(uc score_interface.IngestionUsecase) *ScrapeController {
	return &ScrapeController{IngestionUsecase: uc}
}

// StartScrapping handles /start-scrapping[?max_pieces=N].
func (c *ScrapeController) StartScrapping(ctx *gin.Context) {
	c.start(ctx, ctx.Query("max_pieces"))
}

// StartScrappingWithLimit handles /start-scrapping/{max_pieces}.
func (c *ScrapeController) StartScrappingWithLimit(ctx *gin.Context) {
	c.start(ctx, ctx.Param("max_pieces"))
}

func (c *ScrapeController) start(ctx *gin.Context, raw string) {
	maxPieces := 0
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_MAX_PIECES", "max_pieces must be a positive integer")
			return
		}
		maxPieces = n
	}

	report, err := c.IngestionUsecase.Start(maxPieces)
	if errors.Is(err, domain.ErrScrapeRunning) {
		ctx.JSON(http.StatusConflict, gin.H{"status": "already_running", "run_id": report.RunID})
		return
	}
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}

	var limit *int
	if report.MaxPieces > 0 {
		limit = &report.MaxPieces
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "started", "max_pieces": limit, "run_id": report.RunID})
}

func (c *ScrapeController) GetStatus(ctx *gin.Context) {
	report := c.IngestionUsecase.Status()
	if report == nil {
		ctx.JSON(http.StatusOK, gin.H{"status": "idle"})
		return
	}
	ctx.JSON(http.StatusOK, report)
}
