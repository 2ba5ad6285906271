package score_models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scorecatalog/mutopia-catalog/domain"
)

// NoteEvent is one time-coded note in Tone.js terms: time is bars:beats:sixteenths,
// duration a Tone.js duration ("8n"), velocity normalized to [0, 1].
type NoteEvent struct {
	Time     string  `bson:"time" json:"time"`
	Note     string  `bson:"note" json:"note"`
	Duration string  `bson:"duration" json:"duration"`
	Velocity float64 `bson:"velocity" json:"velocity"`
}

// UnmarshalJSON accepts numeric time and duration values, which models emit
// now and then instead of Tone.js strings.
func (n *NoteEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Time     json.RawMessage `json:"time"`
		Note     string          `json:"note"`
		Duration json.RawMessage `json:"duration"`
		Velocity *float64        `json:"velocity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Time = flexibleString(raw.Time)
	n.Note = raw.Note
	n.Duration = flexibleString(raw.Duration)
	n.Velocity = 0.8
	if raw.Velocity != nil {
		n.Velocity = *raw.Velocity
	}
	return nil
}

func flexibleString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// ValidateNotes checks a transcription before it is cached.
func ValidateNotes(notes []NoteEvent) error {
	for i, n := range notes {
		if strings.TrimSpace(n.Note) == "" || strings.TrimSpace(n.Time) == "" {
			return fmt.Errorf("%w: note event %d lacks time or pitch", domain.ErrModelOutput, i)
		}
		if n.Velocity < 0 || n.Velocity > 1 {
			return fmt.Errorf("%w: note event %d velocity %.2f out of range", domain.ErrModelOutput, i, n.Velocity)
		}
	}
	return nil
}
