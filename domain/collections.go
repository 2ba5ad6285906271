package domain

const (
	CollectionPiecesMetadata = "pieces_metadata"
)
