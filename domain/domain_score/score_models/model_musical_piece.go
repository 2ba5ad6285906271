package score_models

import (
	"fmt"
	"strings"

	"github.com/scorecatalog/mutopia-catalog/domain"
)

const FormatPDF = "PDF"

// MusicalPiece is one catalog entry scraped from a piece-detail page.
// Empty optional fields are treated as absent and never stored.
type MusicalPiece struct {
	ID                string      `bson:"_id,omitempty" json:"_id,omitempty"`
	Title             string      `bson:"title" json:"title"`
	Composer          string      `bson:"composer,omitempty" json:"composer,omitempty"`
	Instruments       string      `bson:"instruments,omitempty" json:"instruments,omitempty"`
	Style             string      `bson:"style,omitempty" json:"style,omitempty"`
	Opus              string      `bson:"opus,omitempty" json:"opus,omitempty"`
	DateOfComposition string      `bson:"date_of_composition,omitempty" json:"date_of_composition,omitempty"`
	Source            string      `bson:"source,omitempty" json:"source,omitempty"`
	Copyright         string      `bson:"copyright,omitempty" json:"copyright,omitempty"`
	LastUpdated       string      `bson:"last_updated,omitempty" json:"last_updated,omitempty"`
	MusicIDNumber     string      `bson:"music_id_number,omitempty" json:"music_id_number,omitempty"`
	PDFURL            string      `bson:"pdf_url,omitempty" json:"pdf_url,omitempty"`
	Format            string      `bson:"format,omitempty" json:"format,omitempty"`
	ImageURL          string      `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Notes             []NoteEvent `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Validate enforces the record invariants checked before every insert and
// after every read.
func (p *MusicalPiece) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", domain.ErrInvalidRecord)
	}
	if p.PDFURL != "" && strings.TrimSpace(p.PDFURL) == "" {
		return fmt.Errorf("%w: pdf_url must not be empty if provided", domain.ErrInvalidRecord)
	}
	return nil
}

// ImageQuery is the search phrase used to annotate a piece with an image.
func (p *MusicalPiece) ImageQuery() string {
	return fmt.Sprintf("%s %s music sheet %s", p.Style, p.Composer, p.Instruments)
}

// HasNotes reports whether a transcription is already cached on the record.
func (p *MusicalPiece) HasNotes() bool {
	return p.Notes != nil
}
