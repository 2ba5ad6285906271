package score_models

import "time"

// ScrapeRunReport summarizes one ingestion run.
type ScrapeRunReport struct {
	RunID      string     `json:"run_id"`
	Running    bool       `json:"running"`
	MaxPieces  int        `json:"max_pieces,omitempty"`
	Discovered int        `json:"discovered"`
	Processed  int        `json:"processed"`
	Inserted   int        `json:"inserted"`
	Duplicates int        `json:"duplicates"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
