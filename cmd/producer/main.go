package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sahoo-tech/RAG/internal/models"
	red "github.com/sahoo-tech/RAG/internal/redis"
	"github.com/sahoo-tech/RAG/internal/setup/logger"
)

func main() {
	data := flag.String("d", "", "Inline JSON QueryMessage")
	stream := flag.String("stream", "analytics-queries", "Stream name")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, stream string) error {
	_ = godotenv.Load()
	log.Logger = logger.New(os.Getenv("LOG_LEVEL"))

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	var queryMessage models.QueryMessage
	if err := json.Unmarshal([]byte(data), &queryMessage); err != nil {
		return err
	}
	if queryMessage.RequestID == "" {
		queryMessage.RequestID = uuid.NewString()
	}

	payload, err := json.Marshal(queryMessage)
	if err != nil {
		return err
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().
		Str("stream", stream).
		Str("id", id).
		Str("request_id", queryMessage.RequestID).
		Msg("Published successfully!")
	return nil
}
