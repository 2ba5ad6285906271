package bootstrap

import (
	"context"
	"time"

	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
	"github.com/scorecatalog/mutopia-catalog/enrichment"
	"github.com/scorecatalog/mutopia-catalog/imagesearch"
	"github.com/scorecatalog/mutopia-catalog/llm"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo"
	"github.com/scorecatalog/mutopia-catalog/scraper/mutopia"
)

// Application holds the process-wide resources. Optional adapters are nil
// when their credentials are missing; the routes that need them then answer
// 503 instead of the process refusing to start.
type Application struct {
	Env    *Env
	Log    *logger.Logger
	Mongo  mongo.Client
	DB     mongo.Database
	Source score_interface.PieceSource

	// DBReachable is false when the startup ping failed.
	DBReachable bool

	PieceImages    score_interface.ImageSearcher
	ComposerImages score_interface.ImageSearcher
	Info           score_interface.InfoGenerator
	Transcriber    score_interface.NotesTranscriber
}

// App loads configuration from envPath, connects to the store and builds the
// outbound adapters.
func App(ctx context.Context, envPath string) (*Application, error) {
	env, err := NewEnv(envPath)
	if err != nil {
		return nil, err
	}
	mode := "development"
	if env.IsProduction() {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, err
	}

	app := &Application{Env: env, Log: log}
	app.Mongo, app.DBReachable, err = NewMongoDatabase(env, log)
	if err != nil {
		return nil, err
	}
	app.DB = app.Mongo.Database(env.DatabaseName())

	if err := app.buildAdapters(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) buildAdapters(ctx context.Context) error {
	env, log := app.Env, app.Log

	fetcher := mutopia.NewFetcher(mutopia.FetcherConfig{UserAgent: env.ScraperUserAgent})
	source, err := mutopia.NewClient(env.ScraperBaseURL, fetcher)
	if err != nil {
		return err
	}
	app.Source = source

	if pexels, err := imagesearch.NewPexels(env.PexelsAPIKey); err != nil {
		log.Warn("pieces will be stored without images", "error", err)
	} else {
		app.PieceImages = pexels
	}

	if google, err := imagesearch.NewGoogle(ctx, env.GoogleImageAPI, env.GoogleImageCX); err != nil {
		log.Warn("composer info will be unavailable", "error", err)
	} else {
		app.ComposerImages = google
	}

	client, err := llm.NewClient(llm.Config{
		APIKey:  env.AnthropicAPIKey,
		BaseURL: env.LLMBaseURL,
		Model:   env.LLMModel,
		Timeout: app.AITimeout(),
	}, log)
	if err != nil {
		log.Warn("AI endpoints will be unavailable", "error", err)
		return nil
	}
	app.Info = enrichment.NewInfoAgent(client, env.LLMInfoFallbackModel)
	app.Transcriber = enrichment.NewNotesAgent(client, enrichment.NotesConfig{
		FallbackModel: env.LLMNotesFallbackModel,
		MaxPages:      env.NotesMaxPages,
		UserAgent:     env.ScraperUserAgent,
	}, log)
	return nil
}

func (app *Application) ContextTimeout() time.Duration {
	return time.Duration(app.Env.ContextTimeout) * time.Second
}

func (app *Application) AITimeout() time.Duration {
	return time.Duration(app.Env.AITimeout) * time.Second
}

func (app *Application) ScrappingDelay() time.Duration {
	return time.Duration(app.Env.ScrappingDelay * float64(time.Second))
}

func (app *Application) CloseDBConnection() {
	CloseMongoDBConnection(app.Mongo, app.Log)
}
