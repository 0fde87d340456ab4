package setup

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/agents"
	"github.com/sahoo-tech/RAG/internal/config"
	"github.com/sahoo-tech/RAG/internal/database"
	"github.com/sahoo-tech/RAG/internal/dataset"
	"github.com/sahoo-tech/RAG/internal/embedding"
	"github.com/sahoo-tech/RAG/internal/engine"
	"github.com/sahoo-tech/RAG/internal/evidence"
	"github.com/sahoo-tech/RAG/internal/llm/bedrock"
	"github.com/sahoo-tech/RAG/internal/query"
	"github.com/sahoo-tech/RAG/internal/response"
	"github.com/sahoo-tech/RAG/internal/retrieval"
	"github.com/sahoo-tech/RAG/internal/scoring"
)

type Config struct {
	APIHost           string
	APIPort           string
	LogLevel          string
	AWSRegion         string
	ClaudeModelID     string
	TitanModelID      string
	EmbeddingProvider string
	NarratorProvider  string
	StoreProvider     string
	DatasetPath       string
	RedisAddr         string
	RedisPassword     string
	StreamName        string
	StreamGroup       string
	ConsumerName      string
}

// KnowledgeStore is the mutable surface of the knowledge base.
type KnowledgeStore interface {
	AddKnowledge(ctx context.Context, text string, meta retrieval.KnowledgeMeta) error
	Size() int
}

type Dependencies struct {
	Engine    *engine.Engine
	Knowledge KnowledgeStore
	Explainer *response.Explainer
	Pipeline  *config.Pipeline
	DB        *database.DB
	Logger    *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		APIPort:           getEnv("API_PORT", "8000"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:     getEnv("CLAUDE_MODEL_ID", ""),
		TitanModelID:      getEnv("TITAN_MODEL_ID", "amazon.titan-embed-text-v2:0"),
		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "hashing"),
		NarratorProvider:  getEnv("NARRATOR_PROVIDER", "template"),
		StoreProvider:     getEnv("STORE_PROVIDER", "memory"),
		DatasetPath:       getEnv("DATASET_PATH", ""),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		StreamName:        getEnv("STREAM_NAME", "analytics-queries"),
		StreamGroup:       getEnv("STREAM_GROUP", "analytics-engine"),
		ConsumerName:      getEnv("HOSTNAME", "analytics-consumer"),
	}
}

// Wire builds the full pipeline from configuration. DB is nil unless the
// postgres store provider is selected; callers that get one own its Close.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	pipeline, err := config.LoadPipelineConfig()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load pipeline config: %w", err)
		}
		logger.Warn().Msg("No pipeline config found, using defaults")
		pipeline = config.DefaultPipeline()
	}

	embedder, err := NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	// Evidence sources
	var (
		semantic  retrieval.SemanticSource
		store     dataset.MetricStore
		knowledge KnowledgeStore
		db        *database.DB
	)

	switch cfg.StoreProvider {
	case "postgres":
		db, err = database.New(ctx, database.ConfigFromEnv())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to metrics database: %w", err)
		}
		store = db
		semantic = retrieval.NewPGSemanticRetriever(db, embedder, pipeline.Retrieval.SimilarityThreshold, logger)
		knowledge = retrieval.NewPGKnowledgeStore(db, embedder, logger)
	default:
		rows := dataset.SampleRows()
		if cfg.DatasetPath != "" {
			rows, err = dataset.LoadCSV(cfg.DatasetPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load dataset: %w", err)
			}
		}
		logger.Info().Int("rows", len(rows)).Msg("Metric store loaded")
		store = dataset.NewMemoryStore(rows)
		semanticRetriever := retrieval.NewSemanticRetriever(embedder, pipeline.Retrieval.SimilarityThreshold, logger)
		if err := retrieval.SeedSampleKnowledge(ctx, semanticRetriever); err != nil {
			return nil, fmt.Errorf("failed to seed knowledge base: %w", err)
		}
		logger.Info().Int("entries", semanticRetriever.Size()).Msg("Sample knowledge initialized")
		semantic = semanticRetriever
		knowledge = semanticRetriever
	}

	coordinator := retrieval.NewCoordinator(
		semantic,
		retrieval.NewStructuredRetriever(store, logger),
		retrieval.NewStatisticalAnalyzer(pipeline.Statistics, logger),
		pipeline.Retrieval.TopK,
		pipeline.Evidence.MaxObjects,
		logger,
	)

	// Reasoning agents
	deduplicator := evidence.NewDeduplicator(embedder, pipeline.Evidence.DedupThreshold, logger)
	retrieverAgent := agents.NewRetrieverAgent(deduplicator, logger)
	analyst := agents.NewAnalystAgent(logger)
	validator := agents.NewValidatorAgent(agents.NewEvidenceValidator(pipeline.Evidence.MinConfidence), logger)

	narrator, err := newNarrator(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create narrator: %w", err)
	}

	orchestrator := agents.NewOrchestrator(retrieverAgent, analyst, validator, narrator, logger)

	// Scoring and response assembly
	explainer := response.NewExplainer(logger)

	eng := engine.New(
		query.NewClassifier(logger),
		query.NewDecomposer(logger),
		coordinator,
		orchestrator,
		scoring.NewConfidenceClassifier(pipeline.Confidence, logger),
		response.NewBuilder(logger),
		explainer,
		logger,
	)

	return &Dependencies{
		Engine:    eng,
		Knowledge: knowledge,
		Explainer: explainer,
		Pipeline:  pipeline,
		DB:        db,
		Logger:    logger,
	}, nil
}

// NewEmbedder creates the configured embedding provider. The hashing
// embedder is the default; it needs no credentials and is deterministic.
func NewEmbedder(ctx context.Context, cfg *Config) (embedding.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "bedrock":
		return embedding.NewBedrockEmbedder(ctx, cfg.AWSRegion, cfg.TitanModelID)
	default:
		return embedding.NewHashingEmbedder(), nil
	}
}

func newNarrator(ctx context.Context, cfg *Config, logger *zerolog.Logger) (agents.Narrator, error) {
	switch cfg.NarratorProvider {
	case "bedrock":
		oracle, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		if err != nil {
			return nil, err
		}
		return agents.NewOracleBackedNarrator(oracle, logger), nil
	default:
		return agents.NewTemplateNarrator(logger), nil
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}
