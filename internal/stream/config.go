package stream

import "github.com/sahoo-tech/RAG/internal/stream/redis"

// StreamConfig selects the stream provider and carries its settings.
type StreamConfig struct {
	Provider    string // redis, kafka, sqs, etc
	RedisConfig *redis.RedisStreamConfig
}
