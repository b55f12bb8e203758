package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/config"
	"github.com/soreahq/sorea/internal/core"
	"github.com/soreahq/sorea/internal/llm"
	"github.com/soreahq/sorea/internal/logging"
	"github.com/soreahq/sorea/internal/queue"
	"github.com/soreahq/sorea/internal/server"
	"github.com/soreahq/sorea/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.Server.Debug)
	defer logger.Sync()

	ctx := context.Background()

	st, err := store.New(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("failed to initialize llm client", zap.Error(err))
	}
	client = llm.WithMetrics(client)

	writer := queue.NewWriter(cfg.Queue.Capacity, logger)
	writer.Start(ctx)

	engine := core.NewEngine(st, client, writer, cfg, logger)
	srv := server.NewServer(engine, st, logger)
	r := srv.SetupRouter()

	logger.Info("starting server",
		zap.String("port", cfg.Server.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("store_backend", cfg.Store.Backend))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
