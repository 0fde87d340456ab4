package stream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/engine"
	red "github.com/sahoo-tech/RAG/internal/redis"
	"github.com/sahoo-tech/RAG/internal/stream/redis"
)

// NewStreamConsumer connects to the configured provider and returns a
// consumer that feeds queries to the engine.
func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	eng *engine.Engine,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := red.Connect(
			ctx,
			cfg.RedisConfig.RedisAddr,
			cfg.RedisConfig.RedisPassword,
			5,
		)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(
			client,
			cfg.RedisConfig.Stream,
			cfg.RedisConfig.Group,
			cfg.RedisConfig.ConsumerName,
			eng,
			logger,
		), nil

	// Future providers:
	// case "kafka":
	//     return kafka.NewConsumer(...)

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
