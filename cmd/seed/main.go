package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sahoo-tech/RAG/internal/database"
	"github.com/sahoo-tech/RAG/internal/dataset"
	"github.com/sahoo-tech/RAG/internal/retrieval"
	"github.com/sahoo-tech/RAG/internal/setup"
	"github.com/sahoo-tech/RAG/internal/setup/logger"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	csvPath := flag.String("csv", "", "Optional CSV of metric observations; defaults to the generated sample set")
	skipKnowledge := flag.Bool("skip-knowledge", false, "Load metric observations only")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	db, err := database.New(ctx, database.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Database connected")

	cfg := setup.LoadConfig()
	log.Logger = logger.New(cfg.LogLevel)

	embedder, err := setup.NewEmbedder(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create embedder")
	}

	// The knowledge table's vector column is sized to the active embedder.
	probe, err := embedder.GenerateEmbeddings(ctx, "dimension probe")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to probe embedding dimension")
	}
	if err := db.EnsureSchema(ctx, len(probe)); err != nil {
		log.Fatal().Err(err).Msg("Failed to create schema")
	}

	rows := dataset.SampleRows()
	if *csvPath != "" {
		rows, err = dataset.LoadCSV(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", *csvPath).Msg("Failed to load CSV")
		}
	}

	if err := db.InsertObservations(ctx, rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to insert observations")
	}
	log.Info().Int("rows", len(rows)).Msg("Metric observations loaded")

	if *skipKnowledge {
		return
	}

	store := retrieval.NewPGKnowledgeStore(db, embedder, &log.Logger)
	if err := retrieval.SeedSampleKnowledge(ctx, store); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed knowledge base")
	}
	log.Info().Int("entries", retrieval.SampleKnowledgeCount()).Msg("Knowledge base seeded")
}
