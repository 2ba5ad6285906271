package controller_score

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/controller"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
)

type EnrichmentController struct {
	EnrichmentUsecase score_interface.EnrichmentUsecase
}

func NewEnrichmentController(uc score_interface.EnrichmentUsecase) *EnrichmentController {
	return &EnrichmentController{EnrichmentUsecase: uc}
}

func (c *EnrichmentController) GetNotesWithAI(ctx *gin.Context) {
	notes, err := c.EnrichmentUsecase.GetNotes(ctx.Request.Context(), ctx.Param("piece_id"))
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (c *EnrichmentController) GetComposerInfo(ctx *gin.Context) {
	info, err := c.EnrichmentUsecase.ComposerInfo(ctx.Request.Context(), ctx.Param("composer_name"))
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, info)
}

func (c *EnrichmentController) GetPieceInfo(ctx *gin.Context) {
	info, err := c.EnrichmentUsecase.PieceInfo(ctx.Request.Context(), ctx.Param("piece_name"))
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, info)
}
