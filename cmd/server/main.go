package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codingislub/chat/internal/chatbot"
	"github.com/codingislub/chat/internal/config"
	"github.com/codingislub/chat/internal/history"
	openaiparser "github.com/codingislub/chat/internal/infrastructure/external/openai"
	httpserver "github.com/codingislub/chat/internal/interfaces/http"
	"github.com/codingislub/chat/internal/query"
	"github.com/codingislub/chat/internal/store"
	"github.com/codingislub/chat/pkg/utils"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	_ = gotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting invoice chat server",
		zap.String("data", cfg.Data.Path),
		zap.Int("port", cfg.Server.Port))

	// Load the invoice dataset
	st, err := store.LoadFile(cfg.Data.Path, logger)
	if err != nil {
		logger.Fatal("Failed to load invoice dataset", zap.Error(err))
	}
	logger.Info("Invoice dataset loaded",
		zap.Int("invoices", st.Count()),
		zap.Int("skipped", st.Skipped()))

	// Build the parser chain
	strategies := []query.Strategy{query.NewDeterministicRules(time.Now)}
	if cfg.OpenAI.Enabled() {
		strategies = append(strategies, openaiparser.NewParser(openaiparser.Config{
			APIKey:        cfg.OpenAI.APIKey,
			Model:         cfg.OpenAI.Model,
			Temperature:   cfg.OpenAI.Temperature,
			Timeout:       cfg.OpenAI.Timeout,
			MinConfidence: cfg.OpenAI.MinConfidence,
		}, st.Vendors(), logger))
		logger.Info("Semantic parsing enabled", zap.String("model", cfg.OpenAI.Model))
	}
	parser := query.NewParser(logger, strategies...)

	opts := chatbot.Options{
		MaxListResults: cfg.Query.MaxListResults,
		DisplayLimit:   cfg.Query.DisplayLimit,
	}
	if cfg.History.Enabled {
		recorder, err := history.NewRecorder(cfg.History.Path, logger)
		if err != nil {
			logger.Fatal("Failed to initialize query history", zap.Error(err))
		}
		defer recorder.Close()
		opts.Recorder = recorder
	}

	bot := chatbot.New(st, parser, opts, logger)

	srv := httpserver.NewServer(cfg.Server, bot, cfg.Logger.Level == "debug", logger)

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
