package score_models

const (
	DBStatusOK             = "ok"
	DBStatusUnhealthy      = "unhealthy"
	DBStatusSkipped        = "skipped"
	DBStatusNotInitialized = "not_initialized"

	PiecesStatusPresent = "present"
	PiecesStatusEmpty   = "empty"
	PiecesStatusUnknown = "unknown"
)

// HealthReport is the body of the health endpoint. Pieces is only reported
// when the database check is enabled.
type HealthReport struct {
	Status string        `json:"status"`
	DB     string        `json:"db"`
	Pieces *PiecesHealth `json:"pieces,omitempty"`
}

type PiecesHealth struct {
	Status string `json:"status"`
	Count  *int64 `json:"count,omitempty"`
}
