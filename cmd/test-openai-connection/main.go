package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	openaiparser "github.com/codingislub/chat/internal/infrastructure/external/openai"
	"github.com/codingislub/chat/internal/query"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	apiKey := flag.String("key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	model := flag.String("model", "gpt-4o-mini", "Model to test against")
	question := flag.String("q", "which vendors have we not paid yet?", "Question to parse")
	timeout := flag.Duration("timeout", 30*time.Second, "API call timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	_ = gotenv.Load()

	// Initialize logger
	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Get API key from flag or environment
	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if *apiKey == "" {
		fmt.Fprintf(os.Stderr, "ERROR: OPENAI_API_KEY not set and no --key flag provided\n")
		fmt.Fprintf(os.Stderr, "Usage: test-openai-connection --key sk-... [--model gpt-4o-mini] [--timeout 30s]\n")
		os.Exit(1)
	}

	fmt.Println("=== OpenAI Connection Test ===")
	fmt.Println("Configuration:")
	fmt.Printf("  Model: %s\n", *model)
	fmt.Printf("  API key length: %d chars\n", len(*apiKey))
	if len(*apiKey) >= 4 {
		fmt.Printf("  API key prefix: %s...\n", (*apiKey)[:4])
	}
	fmt.Printf("  Timeout: %v\n", *timeout)
	fmt.Println()

	parser := openaiparser.NewParser(openaiparser.Config{
		APIKey:  *apiKey,
		Model:   *model,
		Timeout: *timeout,
	}, []string{"Amazon", "Microsoft", "Google"}, logger)
	fmt.Println("✓ Semantic parser initialized")

	fmt.Printf("\nQuestion: %q\n", *question)
	fmt.Println("Sending request to OpenAI API...")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	startTime := time.Now()
	intent, ok := parser.TryParse(ctx, *question)
	duration := time.Since(startTime)

	if !ok {
		fmt.Fprintf(os.Stderr, "❌ ERROR: semantic parse declined or failed\n\n")
		fmt.Fprintf(os.Stderr, "Possible causes:\n")
		fmt.Fprintf(os.Stderr, "  1. Invalid or expired OPENAI_API_KEY\n")
		fmt.Fprintf(os.Stderr, "  2. Network connectivity issue\n")
		fmt.Fprintf(os.Stderr, "  3. API quota exceeded\n")
		fmt.Fprintf(os.Stderr, "  4. Model returned an invalid or low-confidence intent\n")
		fmt.Fprintf(os.Stderr, "\nRe-run with --verbose to see the decline reason.\n")
		os.Exit(1)
	}

	fmt.Println("✓ Received response from OpenAI!")
	fmt.Printf("API Response Time: %v\n", duration)
	fmt.Println()

	fmt.Println("=== Parsed Intent ===")
	fmt.Printf("Kind: %s\n", intent.Kind)
	fmt.Printf("Confidence: %.2f (%.0f%%)\n", intent.Confidence, intent.Confidence*100)

	fmt.Println("\n=== Full Intent (JSON) ===")
	jsonBytes, _ := json.MarshalIndent(intent, "", "  ")
	fmt.Println(string(jsonBytes))

	fmt.Println("\n✅ OpenAI Connection Test PASSED!")
}

// Ensure the semantic parser satisfies the strategy contract (compile-time check)
var _ query.Strategy = (*openaiparser.Parser)(nil)
