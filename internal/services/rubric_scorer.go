package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/interview-evaluator/internal/models"
)

// RubricScorer scores one answer against a rubric.
type RubricScorer interface {
	Score(ctx context.Context, question, answer string, rubric models.Rubric) (*models.RubricReport, error)
}

type rubricScorer struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	runs          int
}

func NewRubricScorer(generator TextGenerator, runs int) RubricScorer {
	if runs < 1 {
		runs = 3
	}
	return &rubricScorer{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		runs:          runs,
	}
}

type scoringRun struct {
	Scores []struct {
		Name        string    `json:"name"`
		Score       flexFloat `json:"score"`
		Explanation string    `json:"explanation"`
	} `json:"scores"`
	OverallScore flexFloat `json:"overall_score"`
}

// Score runs the scoring prompt several times in parallel, averages every
// criterion across runs and summarises the explanations.
func (s *rubricScorer) Score(ctx context.Context, question, answer string, rubric models.Rubric) (*models.RubricReport, error) {
	prompt := s.promptBuilder.BuildRubricScoringPrompt(question, answer, rubric)
	runs := make([]scoringRun, s.runs)

	g, gctx := errgroup.WithContext(ctx)
	for i := range runs {
		g.Go(func() error {
			response, err := s.generator.GenerateText(gctx, prompt, 0.3)
			if err != nil {
				return fmt.Errorf("scoring run %d: %w", i+1, err)
			}
			if err := DecodeJSON(response, &runs[i]); err != nil {
				return fmt.Errorf("scoring run %d: %w", i+1, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	first := runs[0]
	names := make([]string, 0, len(first.Scores))
	explanations := make(map[string][]string, len(first.Scores))
	averages := make(map[string]float64, len(first.Scores))

	for _, c := range first.Scores {
		var total float64
		for i := range runs {
			score, explanation, ok := runs[i].lookup(c.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %q missing from run %d", ErrCriterionNotFound, c.Name, i+1)
			}
			total += score
			explanations[c.Name] = append(explanations[c.Name], explanation)
		}
		names = append(names, c.Name)
		averages[c.Name] = round2(total / float64(len(runs)))
	}

	report := &models.RubricReport{Scores: make([]models.CriterionScore, 0, len(names))}
	if len(names) == 0 {
		return report, nil
	}

	summaries := s.summarize(ctx, names, explanations)

	var sum float64
	for _, name := range names {
		sum += averages[name]
		report.Scores = append(report.Scores, models.CriterionScore{
			Name:        name,
			Score:       averages[name],
			Explanation: summaries[name],
		})
	}
	report.OverallScore = round2(sum / float64(len(names)))

	return report, nil
}

// summarize issues one call for all criteria. A failed or partial summary
// keeps the first run's explanation for the affected criteria.
func (s *rubricScorer) summarize(ctx context.Context, names []string, explanations map[string][]string) map[string]string {
	summaries := make(map[string]string, len(names))
	for _, name := range names {
		summaries[name] = strings.TrimSpace(explanations[name][0])
	}

	prompt := s.promptBuilder.BuildExplanationSummaryPrompt(names, explanations)
	response, err := s.generator.GenerateText(ctx, prompt, 0.2)
	if err != nil {
		log.Printf("⚠️  Failed to summarize explanations: %v\n", err)
		return summaries
	}

	var parsed map[string]string
	if err := DecodeJSON(response, &parsed); err != nil {
		log.Printf("⚠️  Failed to parse explanation summary: %v\n", err)
		return summaries
	}

	for _, name := range names {
		if sentence := strings.TrimSpace(parsed[name]); sentence != "" {
			summaries[name] = sentence
		}
	}

	return summaries
}

func (r scoringRun) lookup(name string) (float64, string, bool) {
	for _, c := range r.Scores {
		if c.Name == name {
			return float64(c.Score), c.Explanation, true
		}
	}
	return 0, "", false
}

// flexFloat accepts both 80 and "80".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("score is neither number nor string: %s", data)
	}

	n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil {
		return fmt.Errorf("invalid score %q: %w", s, err)
	}
	*f = flexFloat(n)
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ZeroReport returns a report with every rubric criterion scored 0.
func ZeroReport(rubric models.Rubric, explanation string) *models.RubricReport {
	report := &models.RubricReport{Scores: make([]models.CriterionScore, 0, len(rubric))}
	for _, c := range rubric {
		report.Scores = append(report.Scores, models.CriterionScore{
			Name:        c.Name,
			Score:       0,
			Explanation: explanation,
		})
	}
	return report
}
