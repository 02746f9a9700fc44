package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"alfredoptarigan/interview-evaluator/internal/models"
)

var exactMatchPattern = regexp.MustCompile(`YES:\s*"(.*)"`)

// MatchKind is the outcome of comparing a new question with its neighbours.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchRelevant
)

type Match struct {
	Kind      MatchKind
	Exact     string
	Relevant  []string
	Neighbors []string
}

// HistoricalResolver decides which stored questions a new question maps to.
type HistoricalResolver struct {
	index         QuestionIndex
	generator     TextGenerator
	promptBuilder *PromptBuilder
	neighbours    int
}

func NewHistoricalResolver(index QuestionIndex, generator TextGenerator, neighbours int) *HistoricalResolver {
	if neighbours < 1 {
		neighbours = 3
	}
	return &HistoricalResolver{
		index:         index,
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		neighbours:    neighbours,
	}
}

func (r *HistoricalResolver) Resolve(ctx context.Context, qType models.QuestionType, question string) (*Match, error) {
	neighbors, err := r.index.Nearest(ctx, qType, question, r.neighbours)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve similar questions: %w", err)
	}

	match := &Match{Kind: MatchNone, Neighbors: neighbors}
	if len(neighbors) == 0 {
		return match, nil
	}

	exact, err := r.exactMatch(ctx, question, neighbors)
	if err != nil {
		return nil, err
	}
	if exact != "" {
		match.Kind = MatchExact
		match.Exact = exact
		return match, nil
	}

	relevant, err := r.relevantMatches(ctx, question, neighbors)
	if err != nil {
		return nil, err
	}
	if len(relevant) > 0 {
		match.Kind = MatchRelevant
		match.Relevant = relevant
	}

	return match, nil
}

// exactMatch returns the stored question the model named, or "" for NO.
// A YES without a quoted question is treated as NO.
func (r *HistoricalResolver) exactMatch(ctx context.Context, question string, neighbors []string) (string, error) {
	prompt := r.promptBuilder.BuildExactMatchPrompt(question, neighbors)
	response, err := r.generator.GenerateText(ctx, prompt, 0)
	if err != nil {
		return "", fmt.Errorf("exact match check: %w", err)
	}

	m := exactMatchPattern.FindStringSubmatch(response)
	if m == nil {
		if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(response)), "YES") {
			log.Printf("⚠️  Exact match answered YES without a quoted question, treating as NO: %q\n", response)
		}
		return "", nil
	}

	return strings.TrimSpace(m[1]), nil
}

// relevantMatches never fails on an unparseable answer; it means no matches.
func (r *HistoricalResolver) relevantMatches(ctx context.Context, question string, neighbors []string) ([]string, error) {
	prompt := r.promptBuilder.BuildRelevancePrompt(question, neighbors)
	response, err := r.generator.GenerateText(ctx, prompt, 0)
	if err != nil {
		return nil, fmt.Errorf("relevance check: %w", err)
	}

	var parsed []string
	if err := DecodeJSON(response, &parsed); err != nil {
		log.Printf("⚠️  Failed to parse relevance response, assuming none: %v\n", err)
		return nil, nil
	}

	seen := make(map[string]bool, len(parsed))
	relevant := make([]string, 0, len(parsed))
	for _, q := range parsed {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		relevant = append(relevant, q)
	}

	return relevant, nil
}
