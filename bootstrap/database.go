package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo"
)

// NewMongoDatabase builds the store client and pings it once. An unreachable
// server does not stop startup: the client is returned with reachable false,
// the driver keeps reconnecting, and /health reports the store as unhealthy.
// Only an unusable configuration is an error.
func NewMongoDatabase(env *Env, log *logger.Logger) (client mongo.Client, reachable bool, err error) {
	client, err = mongo.NewClient(env.MongoURI)
	if err != nil {
		return nil, false, fmt.Errorf("create mongo client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return connectMongo(ctx, client, env.DatabaseName(), log)
}

func connectMongo(ctx context.Context, client mongo.Client, database string, log *logger.Logger) (mongo.Client, bool, error) {
	if err := client.Connect(ctx); err != nil {
		return nil, false, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		log.Warn("MongoDB unreachable at startup, serving degraded", "database", database, "error", err)
		return client, false, nil
	}
	log.Info("connected to MongoDB", "database", database)
	return client, true, nil
}

func CloseMongoDBConnection(client mongo.Client, log *logger.Logger) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error("closing MongoDB connection failed", "error", err)
		return
	}
	log.Info("connection to MongoDB closed")
}
