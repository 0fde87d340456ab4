package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func LoadPipelineConfig() (*Pipeline, error) {

	path := os.Getenv("PIPELINE_CONFIG_PATH")
	if path == "" {
		path = "configs/pipeline.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Pipeline
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultPipeline returns the configuration used when no file is present.
func DefaultPipeline() *Pipeline {
	cfg := &Pipeline{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Pipeline) {
	if cfg.Retrieval.SimilarityThreshold == 0 {
		cfg.Retrieval.SimilarityThreshold = 0.7
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Evidence.MaxObjects == 0 {
		cfg.Evidence.MaxObjects = 50
	}
	if cfg.Evidence.DedupThreshold == 0 {
		cfg.Evidence.DedupThreshold = 0.9
	}
	if cfg.Evidence.MinConfidence == 0 {
		cfg.Evidence.MinConfidence = 0.3
	}
	if cfg.Statistics.MinSampleSize == 0 {
		cfg.Statistics.MinSampleSize = 30
	}
	if cfg.Statistics.ZScoreCutoff == 0 {
		cfg.Statistics.ZScoreCutoff = 2.0
	}
	if cfg.Confidence.HighThreshold == 0 {
		cfg.Confidence.HighThreshold = 0.8
	}
	if cfg.Confidence.PartialThreshold == 0 {
		cfg.Confidence.PartialThreshold = 0.5
	}
}

func (p *Pipeline) Validate() error {
	if p.Retrieval.SimilarityThreshold < 0 || p.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0,1], got %v", p.Retrieval.SimilarityThreshold)
	}
	if p.Evidence.DedupThreshold < 0 || p.Evidence.DedupThreshold > 1 {
		return fmt.Errorf("dedup_threshold must be in [0,1], got %v", p.Evidence.DedupThreshold)
	}
	if p.Evidence.MaxObjects < 1 {
		return fmt.Errorf("max_objects must be positive, got %d", p.Evidence.MaxObjects)
	}
	if p.Statistics.MinSampleSize < 2 {
		return fmt.Errorf("min_sample_size must be at least 2, got %d", p.Statistics.MinSampleSize)
	}
	if p.Confidence.PartialThreshold > p.Confidence.HighThreshold {
		return fmt.Errorf("partial_threshold %v exceeds high_threshold %v", p.Confidence.PartialThreshold, p.Confidence.HighThreshold)
	}
	return nil
}
