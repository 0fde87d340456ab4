package agents

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sahoo-tech/RAG/internal/llm"
	"github.com/sahoo-tech/RAG/internal/models"
)

const (
	narratorAgentName = "NarratorAgent"
	narratorAgentRole = "Generate final answer using only validated evidence"
)

// NarrationInput carries everything the narrator may draw on. Callers pass
// only evidence the validator accepted.
type NarrationInput struct {
	Query       string
	Evidence    []models.EvidenceObject
	Insights    []string
	Comparisons []Comparison
	Patterns    []string
}

// Narrator generates the final user-facing answer.
type Narrator interface {
	Narrate(ctx context.Context, input NarrationInput) (NarrationOutput, models.AgentResponse)
}

// TemplateNarrator assembles the answer from fixed sections. Identical
// input always yields the identical answer.
type TemplateNarrator struct {
	logger *zerolog.Logger
}

func NewTemplateNarrator(logger *zerolog.Logger) *TemplateNarrator {
	return &TemplateNarrator{logger: logger}
}

func (n *TemplateNarrator) Narrate(ctx context.Context, input NarrationInput) (NarrationOutput, models.AgentResponse) {
	start := time.Now()

	n.logger.Info().
		Int("evidence_count", len(input.Evidence)).
		Int("insights_count", len(input.Insights)).
		Msg("NarratorAgent: Generating narrative")

	output := NarrationOutput{
		Answer:             assembleAnswer(input),
		EvidenceReferences: evidenceReferences(input.Evidence),
	}

	n.logger.Info().
		Int("answer_length", len(output.Answer)).
		Msg("NarratorAgent: Narrative generation complete")

	return output, stageResponse(narratorAgentName, narratorAgentRole, output, time.Since(start))
}

// assembleAnswer builds the sectioned template answer. Empty evidence
// short-circuits to the insufficient-data sentence.
func assembleAnswer(input NarrationInput) string {
	if len(input.Evidence) == 0 {
		return "Insufficient data available to answer this query."
	}

	sections := []string{"Based on the available data:"}

	if len(input.Insights) > 0 {
		sections = append(sections, "\nKey Findings:")
		insights := input.Insights
		if len(insights) > 3 {
			insights = insights[:3]
		}
		for _, insight := range insights {
			sections = append(sections, "• "+insight)
		}
	}

	if len(input.Comparisons) > 0 {
		sections = append(sections, "\nComparisons:")
		comparisons := input.Comparisons
		if len(comparisons) > 2 {
			comparisons = comparisons[:2]
		}
		for _, comparison := range comparisons {
			diff := 0.0
			if comparison.DifferencePct != nil {
				diff = *comparison.DifferencePct
			}
			sections = append(sections, fmt.Sprintf(
				"• %s: %s vs %s shows %.1f%% difference",
				capitalize(comparison.Metric), comparison.Segment1, comparison.Segment2, math.Abs(diff),
			))
		}
	}

	if len(input.Patterns) > 0 {
		sections = append(sections, "\nObserved Patterns:")
		for _, pattern := range input.Patterns {
			sections = append(sections, "• "+pattern)
		}
	}

	sections = append(sections, fmt.Sprintf(
		"\nThis analysis is based on %d evidence objects from multiple sources.", len(input.Evidence)))

	return strings.Join(sections, "\n")
}

// evidenceReferences cites up to five evidence objects in display form.
func evidenceReferences(evidence []models.EvidenceObject) []string {
	if len(evidence) > 5 {
		evidence = evidence[:5]
	}
	refs := make([]string, 0, len(evidence))
	for _, e := range evidence {
		refs = append(refs, fmt.Sprintf("%s (%s): %.2f", e.Metric, e.Segment, e.Value))
	}
	return refs
}

const narratorSystemPrompt = "You are an analytical reporting assistant. " +
	"Rewrite the draft answer into clear prose. Use only facts present in " +
	"the draft; never add numbers, trends, or claims of your own."

const (
	narratorMaxTokens   = 500
	narratorTemperature = 0.1
)

// OracleBackedNarrator rewrites the template answer with a language model.
// The template output is both the prompt grounding and the fallback, so an
// unavailable or failing oracle never loses the answer.
type OracleBackedNarrator struct {
	template *TemplateNarrator
	oracle   llm.Client
	logger   *zerolog.Logger
}

func NewOracleBackedNarrator(oracle llm.Client, logger *zerolog.Logger) *OracleBackedNarrator {
	return &OracleBackedNarrator{
		template: NewTemplateNarrator(logger),
		oracle:   oracle,
		logger:   logger,
	}
}

func (n *OracleBackedNarrator) Narrate(ctx context.Context, input NarrationInput) (NarrationOutput, models.AgentResponse) {
	start := time.Now()

	output, _ := n.template.Narrate(ctx, input)
	if len(input.Evidence) == 0 {
		// Nothing to polish. The insufficient-data sentence stands as is.
		return output, stageResponse(narratorAgentName, narratorAgentRole, output, time.Since(start))
	}

	response, err := n.oracle.InvokeModelWithRetry(ctx, llm.Request{
		Prompt:       fmt.Sprintf("Question: %s\n\nDraft answer:\n%s", input.Query, output.Answer),
		SystemPrompt: narratorSystemPrompt,
		MaxTokens:    narratorMaxTokens,
		Temperature:  narratorTemperature,
	})
	if err != nil {
		n.logger.Error().Err(err).Msg("NarratorAgent: Oracle call failed, keeping template answer")
		return output, stageResponse(narratorAgentName, narratorAgentRole, output, time.Since(start))
	}
	if content := strings.TrimSpace(response.Content); content != "" {
		output.Answer = content
	}

	return output, stageResponse(narratorAgentName, narratorAgentRole, output, time.Since(start))
}
