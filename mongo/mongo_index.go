package mongo

import (
	"context"
	"time"

	"github.com/scorecatalog/mutopia-catalog/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreatePieceIndexes creates the lookup indexes used by the dedup gate and the
// filtered listings. Uniqueness is enforced by the application, so none of
// these indexes is unique.
func CreatePieceIndexes(db Database, collectionName string, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pieces := db.Collection(collectionName)
	createIndex(ctx, pieces, bson.D{{Key: "music_id_number", Value: 1}}, "music_id_number", log)
	createIndex(ctx, pieces, bson.D{{Key: "pdf_url", Value: 1}}, "pdf_url", log)
	createIndex(ctx, pieces, bson.D{{Key: "style", Value: 1}}, "style", log)
	createIndex(ctx, pieces, bson.D{{Key: "instruments", Value: 1}}, "instruments", log)
	createIndex(ctx, pieces, bson.D{{Key: "composer", Value: 1}}, "composer", log)
}

func createIndex(
	ctx context.Context,
	collection Collection,
	keys bson.D,
	name string,
	log *logger.Logger,
) {
	specs, err := collection.Indexes().ListSpecifications(ctx)
	if err != nil {
		log.Warn("listing indexes failed", "index", name, "error", err)
	}
	for _, spec := range specs {
		if spec.Name == name {
			log.Debug("index already exists", "index", name)
			return
		}
	}

	indexModel := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Warn("creating index failed", "index", name, "error", err)
		return
	}
	log.Info("index created", "index", name)
}
