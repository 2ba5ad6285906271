package controller_score

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/controller"
	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
)

type MusicalPieceController struct {
	PieceUsecase score_interface.MusicalPieceUsecase
}

func NewMusicalPieceController(uc score_interface.MusicalPieceUsecase) *MusicalPieceController {
	return &MusicalPieceController{PieceUsecase: uc}
}

func (c *MusicalPieceController) GetPieces(ctx *gin.Context) {
	pieces, err := c.PieceUsecase.GetAll(ctx.Request.Context())
	respondPieces(ctx, pieces, err)
}

func (c *MusicalPieceController) GetPiecesNumber(ctx *gin.Context) {
	n, err := c.PieceUsecase.Count(ctx.Request.Context())
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, []gin.H{{"number_of_pieces": n}})
}

func (c *MusicalPieceController) GetPiece(ctx *gin.Context) {
	piece, err := c.PieceUsecase.GetByID(ctx.Request.Context(), ctx.Param("piece_id"))
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, piece)
}

func (c *MusicalPieceController) GetPiecesByTitle(ctx *gin.Context) {
	pieces, err := c.PieceUsecase.GetByTitle(ctx.Request.Context(), ctx.Param("title"))
	respondPieces(ctx, pieces, err)
}

func (c *MusicalPieceController) GetPiecesByComposer(ctx *gin.Context) {
	pieces, err := c.PieceUsecase.GetByComposer(ctx.Request.Context(), ctx.Param("composer"))
	respondPieces(ctx, pieces, err)
}

func (c *MusicalPieceController) GetPiecesByStyle(ctx *gin.Context) {
	pieces, err := c.PieceUsecase.GetByStyle(ctx.Request.Context(), ctx.Param("style"))
	respondPieces(ctx, pieces, err)
}

func (c *MusicalPieceController) GetPiecesByInstrument(ctx *gin.Context) {
	pieces, err := c.PieceUsecase.GetByInstrument(ctx.Request.Context(), ctx.Param("instrument"))
	respondPieces(ctx, pieces, err)
}

func (c *MusicalPieceController) SearchPieces(ctx *gin.Context) {
	pieces, err := c.PieceUsecase.Search(ctx.Request.Context(), ctx.Param("query"))
	respondPieces(ctx, pieces, err)
}

func (c *MusicalPieceController) GetStyles(ctx *gin.Context) {
	styles, err := c.PieceUsecase.GetAllStyles(ctx.Request.Context())
	respondValues(ctx, "styles", styles, err)
}

func (c *MusicalPieceController) GetInstruments(ctx *gin.Context) {
	instruments, err := c.PieceUsecase.GetAllInstruments(ctx.Request.Context())
	respondValues(ctx, "instruments", instruments, err)
}

func (c *MusicalPieceController) GetComposers(ctx *gin.Context) {
	composers, err := c.PieceUsecase.GetAllComposers(ctx.Request.Context())
	respondValues(ctx, "composers", composers, err)
}

// CreatePiece stores a piece sent by the upload form.
func (c *MusicalPieceController) CreatePiece(ctx *gin.Context) {
	var piece score_models.MusicalPiece
	if err := ctx.ShouldBindJSON(&piece); err != nil {
		controller.ErrorResponse(ctx, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	id, err := c.PieceUsecase.Create(ctx.Request.Context(), &piece)
	if dup, ok := asDuplicate(err); ok {
		ctx.JSON(http.StatusConflict, gin.H{"code": "DUPLICATE", "detail": err.Error(), "_id": dup.ExistingID})
		return
	}
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"_id": id})
}

func (c *MusicalPieceController) DeletePieces(ctx *gin.Context) {
	deleted, err := c.PieceUsecase.DeleteAll(ctx.Request.Context())
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func respondPieces(ctx *gin.Context, pieces []*score_models.MusicalPiece, err error) {
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	if pieces == nil {
		pieces = []*score_models.MusicalPiece{}
	}
	ctx.JSON(http.StatusOK, pieces)
}

func respondValues(ctx *gin.Context, key string, values []string, err error) {
	if err != nil {
		controller.FailWith(ctx, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	ctx.JSON(http.StatusOK, gin.H{key: values})
}

func asDuplicate(err error) (*domain.DuplicateError, bool) {
	var dup *domain.DuplicateError
	if err != nil && errors.As(err, &dup) {
		return dup, true
	}
	return nil, false
}
