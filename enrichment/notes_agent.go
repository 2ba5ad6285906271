package enrichment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"github.com/scorecatalog/mutopia-catalog/llm"
	"github.com/scorecatalog/mutopia-catalog/logger"
)

const notesInstructions = `You receive a PDF music sheet.
Read the notes and return a time-based event list usable with the Tone.js library.
Return a JSON array only, starting with '[' and ending with ']'. No explanation,
no comments, no Markdown code fences. Each event has the shape:
{"time": "0:1:0", "note": "E4", "duration": "8n", "velocity": 0.8}
where time is bars:beats:sixteenths, note uses scientific pitch notation,
duration uses Tone.js notation and velocity is between 0.0 and 1.0.
Rules:
- include every note you can read, treble and bass clefs alike;
- chords are several events sharing the same time;
- return at least 40 events when the sheet has that many notes;
- compute times from the tempo and time signature on the sheet; when they are
  missing, infer them or assume 90 bpm in 4/4.`

type NotesConfig struct {
	FallbackModel string
	MaxPages      int   // default 20
	MaxBytes      int64 // default 20MB
	UserAgent     string
	Timeout       time.Duration // PDF download, default 60s
}

func (c *NotesConfig) defaults() {
	if c.MaxPages == 0 {
		c.MaxPages = 20
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 20 * 1024 * 1024
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// NotesAgent transcribes score PDFs into note events.
type NotesAgent struct {
	gen    Generator
	config NotesConfig
	client *http.Client
	log    *logger.Logger
}

func NewNotesAgent(gen Generator, cfg NotesConfig, log *logger.Logger) *NotesAgent {
	cfg.defaults()
	return &NotesAgent{
		gen:    gen,
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Transcribe downloads the PDF, checks it, and asks the model for the notes.
func (a *NotesAgent) Transcribe(ctx context.Context, pdfURL string) ([]score_models.NoteEvent, error) {
	data, err := downloadPDF(ctx, a.client, pdfURL, a.config.UserAgent, a.config.MaxBytes)
	if err != nil {
		return nil, err
	}
	pages, err := InspectPDF(data, a.config.MaxPages)
	if err != nil {
		return nil, err
	}
	a.log.Debug("transcribing score", "pdf_url", pdfURL, "pages", pages, "bytes", len(data))

	out, err := a.gen.GenerateWithFallback(ctx, llm.Request{
		System:  notesInstructions,
		Content: []llm.ContentBlock{llm.PDFBlock(base64.StdEncoding.EncodeToString(data))},
	}, a.config.FallbackModel)
	if err != nil {
		return nil, err
	}
	return ParseNotes(out)
}

// ParseNotes decodes a model answer into validated note events.
func ParseNotes(output string) ([]score_models.NoteEvent, error) {
	var notes []score_models.NoteEvent
	if err := json.Unmarshal([]byte(llm.StripCodeFence(output)), &notes); err != nil {
		return nil, fmt.Errorf("%w: notes output is not a JSON array: %v", domain.ErrModelOutput, err)
	}
	if notes == nil {
		notes = []score_models.NoteEvent{}
	}
	if err := score_models.ValidateNotes(notes); err != nil {
		return nil, err
	}
	return notes, nil
}
