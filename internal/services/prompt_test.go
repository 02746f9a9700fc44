package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/interview-evaluator/internal/models"
)

func TestPromptBuilder(t *testing.T) {
	t.Parallel()

	pb := NewPromptBuilder()

	scoring := pb.BuildRubricScoringPrompt("What is Go?", "A language.", models.Rubric{
		{Name: "Accuracy", Description: "Correct facts."},
		{Name: "Clarity"},
	})
	assert.Contains(t, scoring, "1. Accuracy: Correct facts.\n2. Clarity")
	assert.Contains(t, scoring, "CANDIDATE ANSWER:\nA language.\n")

	exact := pb.BuildExactMatchPrompt("What is Go?", []string{" What is Golang? ", "What is a slice?"})
	assert.Contains(t, exact, "1. What is Golang?\n2. What is a slice?")
	assert.Contains(t, exact, `YES: "`)

	assert.Contains(t, pb.BuildRelevancePrompt("What is Go?", nil), "(none)")

	summary := pb.BuildExplanationSummaryPrompt([]string{"Clarity"}, map[string][]string{"Clarity": {"clear", " concise "}})
	assert.Contains(t, summary, "Clarity:\n  1. clear\n  2. concise")
}
