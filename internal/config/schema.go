package config

// Pipeline holds every tunable threshold of the evidence pipeline. It is
// constructed once at startup and injected into components; nothing mutates
// it afterwards.
type Pipeline struct {
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Evidence   EvidenceConfig   `yaml:"evidence"`
	Statistics StatisticsConfig `yaml:"statistics"`
	Confidence ConfidenceConfig `yaml:"confidence"`
}

// RetrievalConfig tunes the semantic retriever.
type RetrievalConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	TopK                int     `yaml:"top_k"`
}

// EvidenceConfig tunes evidence volume, deduplication and validation.
type EvidenceConfig struct {
	MaxObjects     int     `yaml:"max_objects"`
	DedupThreshold float64 `yaml:"dedup_threshold"`
	MinConfidence  float64 `yaml:"min_confidence"`
}

// StatisticsConfig tunes the statistical analyzer.
type StatisticsConfig struct {
	MinSampleSize int     `yaml:"min_sample_size"`
	ZScoreCutoff  float64 `yaml:"z_score_cutoff"`
}

// ConfidenceConfig holds the classification thresholds.
type ConfidenceConfig struct {
	HighThreshold    float64 `yaml:"high_threshold"`
	PartialThreshold float64 `yaml:"partial_threshold"`
}
