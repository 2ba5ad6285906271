package controller_score

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/controller"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
)

type SystemController struct {
	HealthUsecase score_interface.HealthUsecase
	FaviconPath   string
}

func NewSystemController(uc score_interface.HealthUsecase, faviconPath string) *SystemController {
	return &SystemController{HealthUsecase: uc, FaviconPath: faviconPath}
}

func (c *SystemController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (c *SystemController) RootHead(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}

func (c *SystemController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.HealthUsecase.Check(ctx.Request.Context()))
}

func (c *SystemController) HealthHead(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}

func (c *SystemController) Favicon(ctx *gin.Context) {
	if info, err := os.Stat(c.FaviconPath); err != nil || info.IsDir() {
		controller.ErrorResponse(ctx, http.StatusNotFound, "NOT_FOUND", "favicon not available")
		return
	}
	ctx.File(c.FaviconPath)
}
