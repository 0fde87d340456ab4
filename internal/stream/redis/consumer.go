package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/engine"
	"github.com/sahoo-tech/RAG/internal/models"
)

// QueryProcessor runs one analytical query through the pipeline.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string, includeExplainability bool) (*engine.Outcome, error)
}

type Consumer struct {
	client       *redis.Client
	stream       string
	groupID      string
	consumerName string
	processor    QueryProcessor
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, stream string, groupID string, consumerName string, processor QueryProcessor, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		groupID:      groupID,
		consumerName: consumerName,
		processor:    processor,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	queryMessage, err := decodeQueryMessage(msg.Values)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}

	outcome, err := c.processor.ProcessQuery(ctx, queryMessage.Query, queryMessage.IncludeExplainability)
	if err != nil {
		c.logger.Error().Err(err).
			Str("id", msg.ID).
			Str("request_id", queryMessage.RequestID).
			Msg("Query processing failed")
		c.ack(ctx, msg.ID)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", queryMessage.RequestID).
		Str("confidence", string(outcome.Response.Confidence.ConfidenceLevel)).
		Int("evidence_count", outcome.Response.EvidenceCount).
		Msg("Query processed")

	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}

// decodeQueryMessage extracts and validates the JSON payload of one stream
// entry. A message that fails here is unprocessable and should be skipped.
func decodeQueryMessage(values map[string]any) (models.QueryMessage, error) {
	var queryMessage models.QueryMessage

	payload, ok := values["payload"].(string)
	if !ok {
		return queryMessage, errors.New("missing payload field")
	}

	if err := json.Unmarshal([]byte(payload), &queryMessage); err != nil {
		return queryMessage, fmt.Errorf("invalid payload: %w", err)
	}

	if strings.TrimSpace(queryMessage.Query) == "" {
		return queryMessage, errors.New("empty query")
	}

	return queryMessage, nil
}
