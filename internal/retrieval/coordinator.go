package retrieval

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sahoo-tech/RAG/internal/models"
)

// SemanticSource retrieves evidence by similarity against a knowledge base.
type SemanticSource interface {
	Retrieve(ctx context.Context, subQuestion models.SubQuestion, topK int) ([]models.EvidenceObject, error)
}

// StructuredSource retrieves evidence by filtering and aggregating metric
// observations.
type StructuredSource interface {
	Retrieve(ctx context.Context, subQuestion models.SubQuestion) ([]models.EvidenceObject, error)
}

// Analyzer derives additional evidence from already-collected evidence.
type Analyzer interface {
	Analyze(evidence []models.EvidenceObject) []models.EvidenceObject
}

// Coordinator fans sub-questions out across the retrieval paths and merges
// the results into a single RetrievalResult. A failed path is logged and
// contributes nothing; it never fails the retrieval as a whole.
type Coordinator struct {
	semantic   SemanticSource
	structured StructuredSource
	analyzer   Analyzer
	topK       int
	maxObjects int
	logger     *zerolog.Logger
}

// Up to this many sub-questions are retrieved concurrently.
const retrievalWorkers = 3

func NewCoordinator(
	semantic SemanticSource,
	structured StructuredSource,
	analyzer Analyzer,
	topK int,
	maxObjects int,
	logger *zerolog.Logger,
) *Coordinator {
	return &Coordinator{
		semantic:   semantic,
		structured: structured,
		analyzer:   analyzer,
		topK:       topK,
		maxObjects: maxObjects,
		logger:     logger,
	}
}

// Retrieve collects evidence for every sub-question, runs the statistical
// pass over the merged set, and caps the result at maxObjects. Merge order
// follows sub-question order regardless of which worker finished first, so
// identical input always yields an identical result.
func (c *Coordinator) Retrieve(ctx context.Context, subQuestions []models.SubQuestion) *models.RetrievalResult {
	start := time.Now()

	results := make([][]models.EvidenceObject, len(subQuestions))
	sem := make(chan struct{}, retrievalWorkers)
	var wg sync.WaitGroup
	for i, subQuestion := range subQuestions {
		wg.Add(1)
		go func(i int, subQuestion models.SubQuestion) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = c.retrieveForSubQuestion(ctx, subQuestion)
		}(i, subQuestion)
	}
	wg.Wait()

	var allEvidence []models.EvidenceObject
	for _, evidence := range results {
		allEvidence = append(allEvidence, evidence...)
	}

	allEvidence = append(allEvidence, c.analyzer.Analyze(allEvidence)...)

	if len(allEvidence) > c.maxObjects {
		sort.SliceStable(allEvidence, func(a, b int) bool {
			return allEvidence[a].Confidence > allEvidence[b].Confidence
		})
		allEvidence = allEvidence[:c.maxObjects]
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	sourcesUsed := orderedSources(allEvidence)

	c.logger.Info().
		Int("sub_questions", len(subQuestions)).
		Int("total_evidence", len(allEvidence)).
		Strs("sources", sourcesUsed).
		Float64("time_ms", elapsed).
		Msg("Retrieval coordination complete")

	return &models.RetrievalResult{
		EvidenceObjects: allEvidence,
		RetrievalTimeMS: elapsed,
		SourcesUsed:     sourcesUsed,
	}
}

// retrieveForSubQuestion runs the semantic and structured paths for one
// sub-question concurrently and joins them before returning. Path errors
// are logged and swallowed. Semantic evidence always precedes structured
// evidence in the merged slice.
func (c *Coordinator) retrieveForSubQuestion(ctx context.Context, subQuestion models.SubQuestion) []models.EvidenceObject {
	var (
		wg            sync.WaitGroup
		semantic      []models.EvidenceObject
		semanticErr   error
		structured    []models.EvidenceObject
		structuredErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		semantic, semanticErr = c.semantic.Retrieve(ctx, subQuestion, c.topK)
	}()
	go func() {
		defer wg.Done()
		structured, structuredErr = c.structured.Retrieve(ctx, subQuestion)
	}()
	wg.Wait()

	var evidence []models.EvidenceObject
	if semanticErr != nil {
		c.logger.Error().Err(semanticErr).Msg("Semantic retrieval failed")
	} else {
		evidence = append(evidence, semantic...)
	}
	if structuredErr != nil {
		c.logger.Error().Err(structuredErr).Msg("Structured retrieval failed")
	} else {
		evidence = append(evidence, structured...)
	}
	return evidence
}

// orderedSources lists the distinct sources present in the evidence, in the
// fixed order semantic, structured, statistical.
func orderedSources(evidence []models.EvidenceObject) []string {
	present := make(map[string]bool, 3)
	for _, e := range evidence {
		present[e.Source] = true
	}

	var sources []string
	for _, source := range []string{models.SourceSemantic, models.SourceStructured, models.SourceStatistical} {
		if present[source] {
			sources = append(sources, source)
		}
	}
	return sources
}
