package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"fediview/internal/adapters/cache"
	"fediview/internal/adapters/fetch"
	"fediview/internal/adapters/web"
	"fediview/internal/config"
	"fediview/internal/media"
	"fediview/internal/sanitize"
	"fediview/internal/usecases"
	"fediview/pkg/log"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.Info
	}
	logger := log.New(level, log.NewStdout())
	log.SetDefault(logger)
	defer logger.Close()

	signer := media.NewSigner(cfg.MediaSecret)
	client := fetch.NewClient(cfg.FetchTimeout, signer)

	var fetchCache usecases.FetchCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		fetchCache = cache.NewRedisCache(rdb, cfg.CacheTTL)
		log.GlobalInfo("using redis fetch cache", "addr", cfg.RedisAddr)
	} else {
		fetchCache = cache.NewMemoryCache(cfg.CacheTTL)
	}

	fetchUC := usecases.NewFetchObjectUseCase(fetchCache, client)
	resolveUC := usecases.NewResolveThreadUseCase(fetchUC, client, sanitize.New())

	limiter := web.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	handlers := web.NewHandlers(fetchUC, resolveUC, client, signer, limiter, cfg.MaxQuoteDepth)

	app := fiber.New(fiber.Config{
		AppName: "Fediview",
	})
	web.SetupRoutes(app, handlers)

	log.GlobalInfo("starting server", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", "error", err)
		logger.Close()
		os.Exit(1)
	}
}
