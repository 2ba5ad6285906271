package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Document is the capability a stored record type must offer: a pointer to
// it can validate itself before it is written or after it is read back.
type Document[T any] interface {
	*T
	Validate() error
}

// BaseRepository is the generic document-store contract shared by every
// collection. Single-record lookups return (nil, nil) when nothing matches.
type BaseRepository[T any] interface {
	// Writes
	Insert(ctx context.Context, entity *T) (string, error)
	UpdateFieldsByID(ctx context.Context, id string, set bson.M) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)

	// Single-record lookups
	FindByID(ctx context.Context, id string) (*T, error)
	FindByField(ctx context.Context, field string, value interface{}) (*T, error)

	// Listings; invalid documents are dropped from the result
	FindAll(ctx context.Context) ([]*T, error)
	FindByFilter(ctx context.Context, filter interface{}) ([]*T, error)
	FindByFieldContains(ctx context.Context, field, text string) ([]*T, error)
	FindByFieldVariants(ctx context.Context, field, value string) ([]*T, error)

	// Aggregates
	Count(ctx context.Context, filter interface{}) (int64, error)
	CountValid(ctx context.Context, filter interface{}) (int64, error)
	Distinct(ctx context.Context, field string) ([]string, error)
}
