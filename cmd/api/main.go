package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"roomie-match/internal/config"
	"roomie-match/internal/db"
	apihttp "roomie-match/internal/http"
	"roomie-match/internal/nlp"
	"roomie-match/internal/repository"
	"roomie-match/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	awsCfg, err := nlp.LoadAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Fatal("aws config", zap.Error(err))
	}

	profileRepo := repository.NewPgProfileRepository(pool)
	embeddingRepo := repository.NewPgEmbeddingRepository(pool)

	extractor := nlp.NewComprehendExtractor(awsCfg)
	backend := nlp.NewBedrockEmbedder(awsCfg, cfg.EmbedModelID)
	textEmbedder := service.NewTextEmbedder(extractor, backend, cfg.EmbedDimension, cfg.EmbedLanguage, logger)

	cache := service.NewMemoryVectorCache()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory embedding cache", zap.Error(err))
		} else {
			cache = service.NewRedisVectorCache(redisClient)
		}
		cancel()
	}
	embedder := service.NewCachedEmbedder(
		textEmbedder,
		cache,
		time.Duration(cfg.EmbedCacheTTLMinutes)*time.Minute,
		logger,
	)

	engine := service.NewMatchEngine(embedder, service.CompatibilityFilter{}, cfg.MatchConcurrency, logger)

	profileHandler := apihttp.NewProfileHandler(logger, profileRepo, embeddingRepo, embedder)
	matchHandler := apihttp.NewMatchHandler(logger, profileRepo, engine)
	router := apihttp.NewRouter(logger, profileHandler, matchHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
