package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/scorecatalog/mutopia-catalog/domain"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_util"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
)

// BaseMongoRepository is the generic repository over one collection bound to
// one record type. Every document read back has its _id rendered as a string
// and its string fields passed through FixMojibake before validation;
// documents that fail validation are dropped.
type BaseMongoRepository[T any, PT domain.Document[T]] struct {
	db         mongo.Database
	collection string
	log        *logger.Logger
}

// NewBaseMongoRepository creates a repository over collection.
func NewBaseMongoRepository[T any, PT domain.Document[T]](
	db mongo.Database,
	collection string,
	log *logger.Logger,
) *BaseMongoRepository[T, PT] {
	return &BaseMongoRepository[T, PT]{
		db:         db,
		collection: collection,
		log:        log,
	}
}

// Insert validates and stores entity, letting the store assign the id.
func (r *BaseMongoRepository[T, PT]) Insert(ctx context.Context, entity *T) (string, error) {
	if entity == nil {
		return "", errors.New("entity cannot be nil")
	}
	if err := PT(entity).Validate(); err != nil {
		return "", err
	}

	coll := r.db.Collection(r.collection)
	insertedID, err := coll.InsertOne(ctx, entity)
	if err != nil {
		return "", fmt.Errorf("failed to insert entity: %w", err)
	}
	return idString(insertedID), nil
}

// UpdateFieldsByID applies $set to the document with the given id, trying the
// ObjectID form first and the raw string form second.
func (r *BaseMongoRepository[T, PT]) UpdateFieldsByID(ctx context.Context, id string, set bson.M) (bool, error) {
	if id == "" {
		return false, errors.New("id cannot be empty")
	}

	coll := r.db.Collection(r.collection)
	for _, filter := range idFilters(id) {
		result, err := coll.UpdateOne(ctx, filter, bson.M{"$set": set})
		if err != nil {
			return false, fmt.Errorf("failed to update entity: %w", err)
		}
		if result.MatchedCount > 0 {
			return true, nil
		}
	}
	return false, nil
}

// DeleteAll clears the collection.
func (r *BaseMongoRepository[T, PT]) DeleteAll(ctx context.Context) (int64, error) {
	coll := r.db.Collection(r.collection)
	deleted, err := coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to delete entities: %w", err)
	}
	return deleted, nil
}

// FindByID looks the id up as an ObjectID first, then as a raw string.
func (r *BaseMongoRepository[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, errors.New("id cannot be empty")
	}
	for _, filter := range idFilters(id) {
		entity, err := r.findOne(ctx, filter)
		if err != nil || entity != nil {
			return entity, err
		}
	}
	return nil, nil
}

// FindByField returns the first document whose field equals value.
func (r *BaseMongoRepository[T, PT]) FindByField(ctx context.Context, field string, value interface{}) (*T, error) {
	return r.findOne(ctx, bson.M{field: value})
}

func (r *BaseMongoRepository[T, PT]) FindAll(ctx context.Context) ([]*T, error) {
	return r.FindByFilter(ctx, bson.M{})
}

// FindByFieldContains matches text anywhere in field, ignoring case. Regex
// metacharacters in text are matched literally.
func (r *BaseMongoRepository[T, PT]) FindByFieldContains(ctx context.Context, field, text string) ([]*T, error) {
	return r.FindByFilter(ctx, bson.M{field: containsFilter(text)})
}

// FindByFieldVariants matches the lower, Capitalized and UPPER forms of value.
func (r *BaseMongoRepository[T, PT]) FindByFieldVariants(ctx context.Context, field, value string) ([]*T, error) {
	return r.FindByFilter(ctx, bson.M{field: bson.M{"$in": domain_util.CasingVariants(value)}})
}

func (r *BaseMongoRepository[T, PT]) FindByFilter(ctx context.Context, filter interface{}) ([]*T, error) {
	coll := r.db.Collection(r.collection)
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find entities: %w", err)
	}
	defer func(cursor mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			r.log.Warn("closing cursor failed", "collection", r.collection, "error", err)
		}
	}(cursor, ctx)

	entities := make([]*T, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			r.log.Debug("skipping undecodable document", "collection", r.collection, "error", err)
			continue
		}
		if entity, ok := r.fromDocument(raw); ok {
			entities = append(entities, entity)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entities: %w", err)
	}
	return entities, nil
}

func (r *BaseMongoRepository[T, PT]) Count(ctx context.Context, filter interface{}) (int64, error) {
	coll := r.db.Collection(r.collection)
	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return count, nil
}

// CountValid counts the documents matching filter that survive validation,
// so it always agrees with FindByFilter.
func (r *BaseMongoRepository[T, PT]) CountValid(ctx context.Context, filter interface{}) (int64, error) {
	entities, err := r.FindByFilter(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(entities)), nil
}

// Distinct returns the sorted, deduplicated, mojibake-corrected string values
// of field. Empty and non-string values are skipped.
func (r *BaseMongoRepository[T, PT]) Distinct(ctx context.Context, field string) ([]string, error) {
	coll := r.db.Collection(r.collection)
	values, err := coll.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", field, err)
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		s = domain_util.FixMojibake(s)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

func (r *BaseMongoRepository[T, PT]) findOne(ctx context.Context, filter interface{}) (*T, error) {
	coll := r.db.Collection(r.collection)
	var raw bson.M
	if err := coll.FindOne(ctx, filter).Decode(&raw); err != nil {
		if errors.Is(err, driver.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find entity: %w", err)
	}
	entity, ok := r.fromDocument(raw)
	if !ok {
		return nil, nil
	}
	return entity, nil
}

// fromDocument turns a stored document into a validated entity.
func (r *BaseMongoRepository[T, PT]) fromDocument(raw bson.M) (*T, bool) {
	for key, value := range raw {
		switch v := value.(type) {
		case primitive.ObjectID:
			if key == "_id" {
				raw[key] = v.Hex()
			}
		case string:
			raw[key] = domain_util.FixMojibake(v)
		}
	}

	data, err := bson.Marshal(raw)
	if err != nil {
		r.log.Debug("skipping unmarshalable document", "collection", r.collection, "error", err)
		return nil, false
	}
	var entity T
	if err := bson.Unmarshal(data, &entity); err != nil {
		r.log.Debug("skipping malformed document", "collection", r.collection, "id", raw["_id"], "error", err)
		return nil, false
	}
	if err := PT(&entity).Validate(); err != nil {
		r.log.Debug("skipping invalid document", "collection", r.collection, "id", raw["_id"], "error", err)
		return nil, false
	}
	return &entity, true
}

func containsFilter(text string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(text), "$options": "i"}
}

// idFilters lists the lookups tried for an id: native ObjectID when the id is
// a valid hex form, then the raw string.
func idFilters(id string) []bson.M {
	filters := make([]bson.M, 0, 2)
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filters = append(filters, bson.M{"_id": oid})
	}
	return append(filters, bson.M{"_id": id})
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
