package route

import (
	"github.com/gin-gonic/gin"
	"github.com/scorecatalog/mutopia-catalog/api/middleware"
	"github.com/scorecatalog/mutopia-catalog/api/route/route_score"
	"github.com/scorecatalog/mutopia-catalog/bootstrap"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_interface"
)

// Setup mounts every route on engine. ingestion is shared with main so that
// shutdown can wait for a background run.
func Setup(app *bootstrap.Application, ingestion score_interface.IngestionUsecase, engine *gin.Engine) {
	env := app.Env
	timeout := app.ContextTimeout()

	engine.Use(
		middleware.RequestLogger(app.Log),
		middleware.CORS(env.AllowedOrigins()),
	)

	publicRouter := engine.Group("")

	var admin gin.HandlerFunc
	if env.AccessTokenSecret != "" {
		admin = middleware.JwtAuthMiddleware(env.AccessTokenSecret)
	} else {
		app.Log.Info("admin routes disabled, ACCESS_TOKEN_SECRET is not set")
	}

	route_score.NewSystemRouter(
		timeout, app.Mongo, app.DB, env.MongoPiecesCollection,
		env.HealthcheckDB, env.FaviconPath, app.Log, publicRouter,
	)
	route_score.NewMusicalPieceRouter(
		timeout, app.DB, env.MongoPiecesCollection, app.Log, publicRouter, admin,
	)
	route_score.NewScrapeRouter(ingestion, publicRouter)
	route_score.NewEnrichmentRouter(
		timeout, app.AITimeout(), app.DB, env.MongoPiecesCollection,
		route_score.EnrichmentAdapters{
			Info:           app.Info,
			Transcriber:    app.Transcriber,
			ComposerImages: app.ComposerImages,
		},
		app.Log, publicRouter,
	)
}
