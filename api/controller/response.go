package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/domain"
)

// ErrorBody is the JSON shape of every error answer.
type ErrorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func ErrorResponse(ctx *gin.Context, status int, code, detail string) {
	ctx.AbortWithStatusJSON(status, ErrorBody{Code: code, Detail: detail})
}

// StatusForError maps usecase errors onto HTTP statuses and error codes.
// Anything unrecognized, storage failures included, is a 500.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrPDFMissing):
		return http.StatusNotFound, "PDF_NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusUnprocessableEntity, "INVALID_RECORD"
	case errors.Is(err, domain.ErrPDFUnreadable):
		return http.StatusUnprocessableEntity, "PDF_UNREADABLE"
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrScrapeRunning):
		return http.StatusConflict, "ALREADY_RUNNING"
	case errors.Is(err, domain.ErrModelUnavailable), errors.Is(err, domain.ErrMissingCredentials):
		return http.StatusServiceUnavailable, "AI_UNAVAILABLE"
	case errors.Is(err, domain.ErrModelOutput):
		return http.StatusServiceUnavailable, "AI_BAD_OUTPUT"
	case errors.Is(err, domain.ErrImageSearch):
		return http.StatusBadGateway, "IMAGE_SEARCH_FAILED"
	case errors.Is(err, domain.ErrPDFDownload):
		return http.StatusBadGateway, "PDF_DOWNLOAD_FAILED"
	default:
		return http.StatusInternalServerError, "SERVER_ERROR"
	}
}

// FailWith answers with the status StatusForError picks for err.
func FailWith(ctx *gin.Context, err error) {
	status, code := StatusForError(err)
	ErrorResponse(ctx, status, code, err.Error())
}
