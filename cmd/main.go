package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/route"
	"github.com/scorecatalog/mutopia-catalog/bootstrap"
	"github.com/scorecatalog/mutopia-catalog/mongo"
	"github.com/scorecatalog/mutopia-catalog/repository/repository_score"
	"github.com/scorecatalog/mutopia-catalog/usecase/usecase_score"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.App(ctx, ".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		os.Exit(1)
	}
	log := app.Log
	defer log.Sync()
	defer app.CloseDBConnection()

	env := app.Env
	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if app.DBReachable {
		mongo.CreatePieceIndexes(app.DB, env.MongoPiecesCollection, log)
	} else {
		log.Warn("skipping index creation until the next start", "collection", env.MongoPiecesCollection)
	}

	runner := usecase_score.NewIngestionRunner(
		ctx,
		app.Source,
		app.PieceImages,
		repository_score.NewMusicalPieceRepository(app.DB, env.MongoPiecesCollection, log),
		usecase_score.IngestionConfig{
			DefaultMaxPieces: env.MaxPieces,
			Delay:            app.ScrappingDelay(),
		},
		log,
	)

	engine := gin.New()
	engine.Use(gin.Recovery())
	route.Setup(app, runner, engine)

	srv := &http.Server{
		Addr:    env.ServerAddress,
		Handler: engine,
	}
	go func() {
		log.Info("server listening", "address", env.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	// A running ingestion stops between two pages once ctx is cancelled.
	cancel()
	runner.Wait()
}
