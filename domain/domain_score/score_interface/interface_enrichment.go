package score_interface

import (
	"context"

	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
)

// ImageSearcher returns the link of the first image matching query.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// InfoGenerator describes a composer or a piece in free text.
type InfoGenerator interface {
	Describe(ctx context.Context, subject string) (string, error)
}

// NotesTranscriber reads a score PDF and returns its notes in playing order.
type NotesTranscriber interface {
	Transcribe(ctx context.Context, pdfURL string) ([]score_models.NoteEvent, error)
}
