package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/codingislub/chat/internal/chatbot"
	"github.com/codingislub/chat/internal/config"
	"github.com/codingislub/chat/internal/history"
	openaiparser "github.com/codingislub/chat/internal/infrastructure/external/openai"
	"github.com/codingislub/chat/internal/models"
	"github.com/codingislub/chat/internal/query"
	"github.com/codingislub/chat/internal/report"
	"github.com/codingislub/chat/internal/store"
	"github.com/codingislub/chat/pkg/utils"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	dataPath := flag.String("data", "", "Path to invoices JSON (overrides config)")
	question := flag.String("q", "", "Single question to ask")
	exportPath := flag.String("export", "", "Write an .xlsx report to this path and exit")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	// Pick up OPENAI_API_KEY and friends from .env if present.
	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}
	if *verbose {
		cfg.Logger.Level = "debug"
	}

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

	st, err := store.LoadFile(cfg.Data.Path, logger)
	if err != nil {
		logger.Fatal("Failed to load invoice dataset", zap.Error(err))
	}
	if st.Skipped() > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d invalid invoice record(s)\n", st.Skipped())
	}

	if *exportPath != "" {
		if err := exportReport(*exportPath, st, cfg, logger); err != nil {
			logger.Fatal("Failed to export report", zap.Error(err))
		}
		fmt.Printf("Report written to %s\n", *exportPath)
		return
	}

	bot := buildBot(cfg, st, logger)

	ctx := context.Background()
	if *question != "" {
		fmt.Println(bot.Answer(ctx, *question))
		return
	}

	runInteractive(ctx, bot)
}

// buildBot assembles the parser chain and the bot from configuration.
func buildBot(cfg *config.Config, st *store.Store, logger *zap.Logger) *chatbot.Bot {
	strategies := []query.Strategy{query.NewDeterministicRules(time.Now)}
	if cfg.OpenAI.Enabled() {
		strategies = append(strategies, openaiparser.NewParser(openaiparser.Config{
			APIKey:        cfg.OpenAI.APIKey,
			Model:         cfg.OpenAI.Model,
			Temperature:   cfg.OpenAI.Temperature,
			Timeout:       cfg.OpenAI.Timeout,
			MinConfidence: cfg.OpenAI.MinConfidence,
		}, st.Vendors(), logger))
	} else {
		logger.Debug("Semantic tier disabled: no OpenAI API key configured")
	}
	parser := query.NewParser(logger, strategies...)

	opts := chatbot.Options{
		MaxListResults: cfg.Query.MaxListResults,
		DisplayLimit:   cfg.Query.DisplayLimit,
	}
	if cfg.History.Enabled {
		recorder, err := history.NewRecorder(cfg.History.Path, logger)
		if err != nil {
			logger.Warn("Query history disabled", zap.Error(err))
		} else {
			opts.Recorder = recorder
		}
	}

	return chatbot.New(st, parser, opts, logger)
}

func runInteractive(ctx context.Context, bot *chatbot.Bot) {
	fmt.Printf("Loaded %d invoices. Ask me about them (type \"exit\" to quit).\n", bot.Store().Count())
	fmt.Println("Examples:")
	fmt.Println(`  - How many invoices are due in the next 7 days?`)
	fmt.Println(`  - What's the total from Amazon?`)
	fmt.Println(`  - Show me overdue invoices`)
	fmt.Println(`  - Summary of all invoices`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nBye!")
			return
		}
		q := scanner.Text()
		if q == "" {
			continue
		}
		if q == "exit" || q == "quit" {
			fmt.Println("Bye!")
			return
		}
		fmt.Printf("Bot: %s\n", bot.Answer(ctx, q))
	}
}

func exportReport(path string, st *store.Store, cfg *config.Config, logger *zap.Logger) error {
	executor := query.NewExecutor(st, cfg.Query.MaxListResults)
	result := executor.Execute(&models.Intent{Kind: models.KindSummary}, time.Now())
	writer := report.NewExcelWriter(logger)
	return writer.Write(path, result.Stats, st.All(), time.Now())
}
