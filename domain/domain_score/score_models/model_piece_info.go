package score_models

// ComposerPieceInfo is returned by the composer info endpoint and never stored.
type ComposerPieceInfo struct {
	Info     string `json:"info"`
	ImageURL string `json:"image_url"`
}

// PieceInfo is returned by the piece info endpoint and never stored.
type PieceInfo struct {
	Info string `json:"info"`
}
