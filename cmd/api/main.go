package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/purechef/purechef/internal/auth"
	"github.com/purechef/purechef/internal/cache"
	"github.com/purechef/purechef/internal/config"
	"github.com/purechef/purechef/internal/db"
	"github.com/purechef/purechef/internal/genai"
	httpx "github.com/purechef/purechef/internal/http"
	"github.com/purechef/purechef/internal/imagestore"
	"github.com/purechef/purechef/internal/observability"
	"github.com/purechef/purechef/internal/repo/mongodb"
)

const recipeCacheTTL = 15 * time.Minute

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if cfg.JWTSecret == "" {
		// Keep serving so health checks pass; auth routes answer 500 until fixed.
		log.Error("JWT_SECRET is not set; auth routes will fail until it is configured")
	}

	// credential store (postgres)
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("postgres connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrateCtx, cancelMigrate := config.WithTimeout(30 * time.Second)
	err = db.Migrate(migrateCtx, cfg.DBURL)
	cancelMigrate()

	if err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// document stores (mongo)
	mongoCtx, cancelMongo := config.WithTimeout(10 * time.Second)
	mongoClient, mongoDB, err := db.NewMongo(mongoCtx, cfg.MongoURI, cfg.MongoDB)
	cancelMongo()

	if err != nil {
		log.Error("mongo connect failed", "err", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	indexCtx, cancelIndex := config.WithTimeout(10 * time.Second)
	err = mongodb.EnsureIndexes(indexCtx, mongoDB)
	cancelIndex()

	if err != nil {
		log.Error("mongo index creation failed", "err", err)
		os.Exit(1)
	}

	// optional recipe-response cache
	var recipeCache *cache.RecipeCache

	if cfg.RedisAddr != "" {
		cacheCtx, cancelCache := config.WithTimeout(5 * time.Second)
		recipeCache, err = cache.NewRecipeCache(cacheCtx, cfg.RedisAddr, cfg.RedisPassword, recipeCacheTTL, log)
		cancelCache()

		if err != nil {
			// Degrade to no cache rather than refusing to start.
			log.Warn("redis unavailable, recipe cache disabled", "err", err)
			recipeCache = nil
		} else {
			defer recipeCache.Close()
		}
	}

	images, err := newImageStore(cfg)

	if err != nil {
		log.Error("image store init failed", "backend", cfg.ImageBackend, "err", err)
		os.Exit(1)
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	aiClient := genai.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiTextModel, cfg.GeminiImageModel, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	// optional tracing
	if cfg.OTLPEndpoint != "" {
		traceCtx, cancelTrace := config.WithTimeout(5 * time.Second)
		shutdownTracer, err := observability.InitTracer(traceCtx, "purechef-api", cfg.OTLPEndpoint)
		cancelTrace()

		if err != nil {
			log.Warn("tracer init failed, continuing without traces", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	router := httpx.NewRouter(httpx.Deps{
		Cfg:      &cfg,
		Log:      log,
		Pool:     pool,
		Mongo:    mongoDB,
		AI:       aiClient,
		Images:   images,
		Cache:    recipeCache,
		JWT:      jwtManager,
		Prom:     prom,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Model calls routinely run long; the write timeout has to cover them.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func newImageStore(cfg config.Config) (imagestore.Store, error) {
	if cfg.ImageBackend == "minio" {
		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		return imagestore.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	}

	return imagestore.NewDiskStore(cfg.ImageDir)
}
