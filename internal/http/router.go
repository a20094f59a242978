// Package http wires the gin engine: middleware chain, route groups and
// handler construction.
package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/purechef/purechef/internal/auth"
	"github.com/purechef/purechef/internal/cache"
	"github.com/purechef/purechef/internal/config"
	"github.com/purechef/purechef/internal/http/handlers"
	"github.com/purechef/purechef/internal/http/middlewares"
	"github.com/purechef/purechef/internal/imagestore"
	"github.com/purechef/purechef/internal/observability"
	"github.com/purechef/purechef/internal/recency"
	"github.com/purechef/purechef/internal/repo/mongodb"
	"github.com/purechef/purechef/internal/repo/postgres"
)

// Deps carries everything the router needs; main owns construction and
// lifecycle, the router only wires.
type Deps struct {
	Cfg    *config.Config
	Log    *slog.Logger
	Pool   *pgxpool.Pool
	Mongo  *mongo.Database
	AI     handlers.RecipeGenerator
	Images imagestore.Store
	Cache  *cache.RecipeCache
	JWT    *auth.Manager

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

const maxUploadBytes = 10 << 20 // fridge photos

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxUploadBytes))
	r.Use(otelgin.Middleware("purechef-api"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// repositories and domain services; ObserveStoreOp is nil-receiver safe,
	// so a missing Prom just disables store metrics
	usersRepo := postgres.NewUsersRepo(d.Pool, d.Prom)
	pantryRepo := mongodb.NewPantryRepo(d.Mongo, d.Prom)
	recipesRepo := mongodb.NewRecipesRepo(d.Mongo, d.Prom)
	recentRepo := mongodb.NewRecentViewsRepo(d.Mongo, d.Prom)
	recencyManager := recency.NewManager(recentRepo)

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, d.JWT)
	pantryHandler := handlers.NewPantryHandler(pantryRepo)
	recipesHandler := handlers.NewRecipesHandler(recipesRepo)
	recentHandler := handlers.NewRecentHandler(recencyManager)
	aiHandler := handlers.NewAIHandler(d.AI, d.Images, d.Cache, d.Log, d.Cfg.PublicBaseURL)
	imagesHandler := handlers.NewImagesHandler(d.Images)
	healthHandler := handlers.NewHealthHandler(d.pgPing(), d.mongoPing())

	requireAuth := middlewares.NewAuthMiddleware(d.JWT).RequireAuth()
	requireJSON := middlewares.RequireJSON()

	// Signup/login keyed by IP; model routes keyed by user since they are
	// the expensive ones.
	authLimiter := middlewares.NewRateLimiter(20, time.Minute)
	aiLimiter := middlewares.NewRateLimiter(12, time.Minute)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/api/health", healthHandler.Health)
	r.GET("/images/:name", imagesHandler.Get)

	authGroup := r.Group("/api/auth")
	{
		public := authGroup.Group("", authLimiter.RateLimiterMiddleware(middlewares.KeyByIP), requireJSON)
		public.POST("/signup", authHandler.SignUp)
		public.POST("/login", authHandler.Login)

		profile := authGroup.Group("", requireAuth)
		profile.GET("/profile", authHandler.GetProfile)
		profile.PUT("/profile", requireJSON, authHandler.UpdateProfile)
	}

	aiGroup := r.Group("/api/ai", requireAuth, aiLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))
	{
		// multipart uploads
		aiGroup.POST("/detect-ingredients", aiHandler.DetectIngredients)
		aiGroup.POST("/analyze-fridge", aiHandler.AnalyzeFridge)

		// JSON bodies
		aiGroup.POST("/detect-ingredients-base64", requireJSON, aiHandler.DetectIngredientsBase64)
		aiGroup.POST("/generate-recipes", requireJSON, aiHandler.GenerateRecipes)
		aiGroup.POST("/generate-recipes-v2", requireJSON, aiHandler.GenerateRecipesV2)
		aiGroup.POST("/generate-recipe-image", requireJSON, aiHandler.GenerateRecipeImage)
	}

	pantryGroup := r.Group("/api/pantry", requireAuth)
	{
		pantryGroup.GET("", pantryHandler.List)
		pantryGroup.POST("", requireJSON, pantryHandler.Add)
		pantryGroup.DELETE("/:id", pantryHandler.Delete)
	}

	recipesGroup := r.Group("/api/recipes", requireAuth)
	{
		recipesGroup.GET("", recipesHandler.List)
		recipesGroup.POST("/save-recipe", requireJSON, recipesHandler.Save)
		recipesGroup.DELETE("/:id", recipesHandler.Delete)
	}

	recentGroup := r.Group("/api/recent-recipes", requireAuth)
	{
		recentGroup.GET("", recentHandler.ListRecent)
		recentGroup.POST("", requireJSON, recentHandler.RecordView)
	}

	return r
}

func (d Deps) pgPing() handlers.PingFunc {
	if d.Pool == nil {
		return nil
	}
	return d.Pool.Ping
}

func (d Deps) mongoPing() handlers.PingFunc {
	if d.Mongo == nil {
		return nil
	}
	client := d.Mongo.Client()
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}
