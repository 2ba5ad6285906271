package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidRecord      = errors.New("invalid record")
	ErrPDFMissing         = errors.New("PDF URL not found for this piece")
	ErrModelUnavailable   = errors.New("AI model unavailable")
	ErrModelOutput        = errors.New("unusable AI model output")
	ErrImageSearch        = errors.New("image search failed")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrScrapeRunning      = errors.New("scraping already running")
	ErrDuplicate          = errors.New("piece already exists")
	ErrPDFDownload        = errors.New("score PDF download failed")
	ErrPDFUnreadable      = errors.New("score PDF cannot be processed")
)

// DuplicateError reports that a piece is already stored under ExistingID.
type DuplicateError struct {
	ExistingID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v: existing id %s", ErrDuplicate, e.ExistingID)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
