// Package evidence merges and deduplicates evidence objects between the
// retrieval and analysis stages.
package evidence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/embedding"
	"github.com/sahoo-tech/RAG/internal/models"
)

// Deduplicator removes exact and near-duplicate evidence objects. The exact
// pass fingerprints identity fields; the semantic pass embeds support texts
// and greedily removes the lower-confidence item of any pair at or above the
// similarity threshold.
type Deduplicator struct {
	embedder  embedding.Embedder
	threshold float64
	logger    *zerolog.Logger
}

func NewDeduplicator(embedder embedding.Embedder, threshold float64, logger *zerolog.Logger) *Deduplicator {
	return &Deduplicator{
		embedder:  embedder,
		threshold: threshold,
		logger:    logger,
	}
}

// Deduplicate runs the exact pass, then the semantic pass. Applying it to its
// own output changes nothing: survivors are pairwise below the threshold.
func (d *Deduplicator) Deduplicate(ctx context.Context, evidence []models.EvidenceObject) ([]models.EvidenceObject, error) {
	if len(evidence) == 0 {
		return nil, nil
	}

	uniqueByHash := deduplicateByHash(evidence)

	unique, err := d.deduplicateBySimilarity(ctx, uniqueByHash)
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Int("original", len(evidence)).
		Int("after_hash", len(uniqueByHash)).
		Int("final", len(unique)).
		Msg("Evidence deduplication complete")

	return unique, nil
}

func deduplicateByHash(evidence []models.EvidenceObject) []models.EvidenceObject {
	seen := make(map[string]bool, len(evidence))
	var unique []models.EvidenceObject
	for _, e := range evidence {
		hash := identityHash(e)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		unique = append(unique, e)
	}
	return unique
}

// identityHash fingerprints the fields that identify an observation. The
// value is rounded to two decimals so float noise does not defeat the exact
// pass.
func identityHash(e models.EvidenceObject) string {
	key := fmt.Sprintf("%s|%s|%s|%.2f", e.Metric, e.Segment, e.TimeWindow, e.Value)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// deduplicateBySimilarity is a greedy single-link pass: items are visited in
// order, and for each surviving item the lower-confidence member of any
// at-or-above-threshold pair is removed (ties keep the earlier item).
// Transitivity is not enforced explicitly; sequential merging collapses a set
// of mutually similar items to one survivor. O(n^2) in the surviving count.
func (d *Deduplicator) deduplicateBySimilarity(ctx context.Context, evidence []models.EvidenceObject) ([]models.EvidenceObject, error) {
	if len(evidence) <= 1 {
		return evidence, nil
	}

	texts := make([]string, len(evidence))
	for i, e := range evidence {
		texts[i] = e.Support
	}
	embeddings, err := d.embedder.GenerateBatchEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("Unable to embed support texts for deduplication: %w", err)
	}

	removed := make([]bool, len(evidence))
	for i := 0; i < len(evidence); i++ {
		if removed[i] {
			continue
		}
		for j := i + 1; j < len(evidence) && !removed[i]; j++ {
			if removed[j] {
				continue
			}
			if embedding.CosineSimilarity(embeddings[i], embeddings[j]) < d.threshold {
				continue
			}
			if evidence[j].Confidence > evidence[i].Confidence {
				removed[i] = true
			} else {
				removed[j] = true
			}
		}
	}

	var unique []models.EvidenceObject
	for i, e := range evidence {
		if !removed[i] {
			unique = append(unique, e)
		}
	}
	return unique, nil
}
