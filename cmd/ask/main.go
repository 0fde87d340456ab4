package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sahoo-tech/RAG/internal/setup"
	"github.com/sahoo-tech/RAG/internal/setup/logger"
)

func main() {
	query := flag.String("q", "", "Analytical query to answer")
	explain := flag.Bool("explain", false, "Print the full reasoning trace")
	jsonOut := flag.Bool("json", false, "Emit the raw JSON response")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "Usage: ask -q '<analytical question>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	cfg := setup.LoadConfig()
	log.Logger = logger.New(cfg.LogLevel)

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to wire dependencies")
	}
	if deps.DB != nil {
		defer deps.DB.Close()
	}

	outcome, err := deps.Engine.ProcessQuery(ctx, *query, *explain)
	if err != nil {
		log.Fatal().Err(err).Msg("Query failed")
	}

	if *jsonOut {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(outcome); err != nil {
			log.Fatal().Err(err).Msg("Unable to encode response")
		}
		return
	}

	confidence := outcome.Response.Confidence
	fmt.Println(outcome.Response.Answer)
	fmt.Println()
	fmt.Printf("Confidence: %s (overall %.2f, coverage %.2f, completeness %.2f)\n",
		confidence.ConfidenceLevel,
		confidence.OverallConfidence,
		confidence.CoverageScore,
		confidence.CompletenessScore,
	)
	fmt.Printf("Evidence: %d validated objects in %.0f ms\n",
		outcome.Response.EvidenceCount,
		outcome.Response.ProcessingTimeMS,
	)
	for _, reference := range outcome.EvidenceReferences {
		fmt.Printf("  - %s\n", reference)
	}

	if *explain && outcome.Explainability != nil {
		fmt.Println()
		fmt.Println(deps.Explainer.FormatExplainabilityText(*outcome.Explainability))
	}
}
