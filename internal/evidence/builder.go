package evidence

import (
	"github.com/sahoo-tech/RAG/internal/models"
)

// MergeByIdentity keeps the highest-confidence object per (metric, segment,
// time window) group, in first-seen group order. Unlike Deduplicate it never
// looks at support text, so callers can collapse identity duplicates without
// an embedder.
func MergeByIdentity(evidence []models.EvidenceObject) []models.EvidenceObject {
	type identity struct {
		metric, segment, timeWindow string
	}

	best := make(map[identity]models.EvidenceObject, len(evidence))
	var order []identity
	for _, e := range evidence {
		key := identity{metric: e.Metric, segment: e.Segment, timeWindow: e.TimeWindow}
		current, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = e
			continue
		}
		if e.Confidence > current.Confidence {
			best[key] = e
		}
	}

	merged := make([]models.EvidenceObject, 0, len(order))
	for _, key := range order {
		merged = append(merged, best[key])
	}
	return merged
}

// Enrich returns a copy of the evidence with additional context appended to
// its support text.
func Enrich(e models.EvidenceObject, context string) models.EvidenceObject {
	e.Support = e.Support + ". " + context
	return e
}
