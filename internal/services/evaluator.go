package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"alfredoptarigan/interview-evaluator/internal/config"
	"alfredoptarigan/interview-evaluator/internal/models"
)

type EvaluatorService interface {
	Evaluate(ctx context.Context, question, answer string) (*models.EvaluationResult, error)
	EvaluateBatch(ctx context.Context, pairs []models.AnswerPair) []models.BatchItem
}

type evaluatorService struct {
	catalog       *config.Catalog
	historical    *HistoricalStore
	resolver      *HistoricalResolver
	scorer        RubricScorer
	generator     TextGenerator
	promptBuilder *PromptBuilder
	cfg           config.EvaluationConfig
}

func NewEvaluatorService(
	catalog *config.Catalog,
	historical *HistoricalStore,
	index QuestionIndex,
	generator TextGenerator,
	cfg config.EvaluationConfig,
) EvaluatorService {
	cfg.ExactHistoricalWeight = clampUnit(cfg.ExactHistoricalWeight)
	cfg.RelevantFreshWeight = clampUnit(cfg.RelevantFreshWeight)
	if cfg.MinAnswerWords < 1 {
		cfg.MinAnswerWords = 3
	}

	return &evaluatorService{
		catalog:       catalog,
		historical:    historical,
		resolver:      NewHistoricalResolver(index, generator, cfg.Neighbours),
		scorer:        NewRubricScorer(generator, cfg.ScoringRuns),
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		cfg:           cfg,
	}
}

var degenerateAnswers = map[string]bool{
	"i don't know":       true,
	"i dont know":        true,
	"i do not know":      true,
	"don't know":         true,
	"dont know":          true,
	"idk":                true,
	"no idea":            true,
	"i have no idea":     true,
	"not sure":           true,
	"i'm not sure":       true,
	"im not sure":        true,
	"i am not sure":      true,
	"no clue":            true,
	"i have no clue":     true,
	"pass":               true,
	"i'd rather not say": true,
}

var nonAnswerChars = regexp.MustCompile(`[^a-z0-9' ]+`)

func normalizeAnswer(answer string) string {
	answer = strings.ToLower(answer)
	answer = strings.NewReplacer("’", "'", "‘", "'").Replace(answer)
	answer = nonAnswerChars.ReplaceAllString(answer, " ")
	return strings.Join(strings.Fields(answer), " ")
}

// IsDegenerateAnswer reports answers that are empty, a known "I don't know"
// variant or shorter than minWords.
func IsDegenerateAnswer(answer string, minWords int) bool {
	normalized := normalizeAnswer(answer)
	if normalized == "" || degenerateAnswers[normalized] {
		return true
	}
	return len(strings.Fields(normalized)) < minWords
}

func (e *evaluatorService) Evaluate(ctx context.Context, question, answer string) (*models.EvaluationResult, error) {
	qType, ok := e.catalog.QuestionType(question)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, question)
	}
	rubric := e.catalog.Rubric(qType)

	result := &models.EvaluationResult{Question: question, Type: qType}

	if IsDegenerateAnswer(answer, e.cfg.MinAnswerWords) {
		log.Printf("⚠️  Degenerate answer for %q, scoring 0\n", question)
		result.RubricBreakdown = ZeroReport(rubric, "No meaningful answer was given.")
		return result, nil
	}

	snapshot := e.historical.Snapshot()

	log.Printf("🔍 Retrieving similar %s questions...\n", qType)
	match, err := e.resolver.Resolve(ctx, qType, question)
	if err != nil {
		return nil, err
	}

	switch match.Kind {
	case MatchExact:
		historical, found := snapshot.Score(qType, match.Exact)
		if !found {
			log.Printf("⚠️  Exact match %q has no historical score, using 0\n", match.Exact)
		}

		log.Println("🤖 Scoring answer against rubric...")
		fresh, err := e.scorer.Score(ctx, question, answer, rubric)
		if err != nil {
			return nil, fmt.Errorf("failed to score answer: %w", err)
		}

		result.OldDatasetScore = historical
		result.RubricScore = fresh.OverallScore
		result.RubricBreakdown = fresh
		if historical > e.cfg.HistoricalThreshold {
			w := e.cfg.ExactHistoricalWeight
			result.FinalCombinedScore = round2(w*historical + (1-w)*fresh.OverallScore)
		} else {
			result.FinalCombinedScore = fresh.OverallScore
		}
		return result, nil

	case MatchRelevant:
		avgOld, scored, err := e.rescoreRelevant(ctx, snapshot, qType, rubric, match.Relevant)
		if err != nil {
			return nil, err
		}

		log.Println("🤖 Scoring answer against rubric...")
		fresh, err := e.scorer.Score(ctx, question, answer, rubric)
		if err != nil {
			return nil, fmt.Errorf("failed to score answer: %w", err)
		}

		result.RubricScore = fresh.OverallScore
		result.RubricBreakdown = fresh
		if scored == 0 {
			result.FinalCombinedScore = fresh.OverallScore
			return result, nil
		}

		w := e.cfg.RelevantFreshWeight
		result.OldDatasetScore = round2(avgOld)
		result.FinalCombinedScore = round2(w*fresh.OverallScore + (1-w)*avgOld)
		return result, nil

	default:
		log.Println("🤖 Scoring answer against rubric...")
		fresh, err := e.scorer.Score(ctx, question, answer, rubric)
		if err != nil {
			return nil, fmt.Errorf("failed to score answer: %w", err)
		}

		result.RubricScore = fresh.OverallScore
		result.FinalCombinedScore = fresh.OverallScore
		result.RubricBreakdown = fresh
		return result, nil
	}
}

// rescoreRelevant scores the stored answer of each relevant question and
// returns the mean overall score and how many were scored. Questions without
// a stored answer are skipped.
func (e *evaluatorService) rescoreRelevant(
	ctx context.Context,
	snapshot *HistoricalSnapshot,
	qType models.QuestionType,
	rubric models.Rubric,
	relevant []string,
) (float64, int, error) {
	var (
		total  float64
		scored int
	)

	for _, q := range relevant {
		stored, ok := snapshot.Answer(qType, q)
		if !ok {
			log.Printf("⚠️  Relevant question %q is not in the %s dataset, skipping\n", q, qType)
			continue
		}

		if qType == models.QuestionTypeHR && IsInstructionalAnswer(stored) {
			stored = e.rewriteInstructional(ctx, q, stored)
		}

		log.Printf("🤖 Re-scoring historical answer for %q...\n", q)
		report, err := e.scorer.Score(ctx, q, stored, rubric)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to score historical answer: %w", err)
		}

		total += report.OverallScore
		scored++
	}

	if scored == 0 {
		return 0, 0, nil
	}
	return total / float64(scored), scored, nil
}

func (e *evaluatorService) rewriteInstructional(ctx context.Context, question, guidance string) string {
	prompt := e.promptBuilder.BuildAnswerRewritePrompt(question, guidance)
	rewritten, err := e.generator.GenerateText(ctx, prompt, 0.5)
	if err != nil {
		log.Printf("⚠️  Failed to rewrite instructional answer, keeping original: %v\n", err)
		return guidance
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return guidance
	}
	return rewritten
}

// EvaluateBatch evaluates every pair independently. A failing pair yields an
// item carrying its error; the batch always returns one item per pair.
func (e *evaluatorService) EvaluateBatch(ctx context.Context, pairs []models.AnswerPair) []models.BatchItem {
	items := make([]models.BatchItem, 0, len(pairs))

	for i, pair := range pairs {
		qType, _ := e.catalog.QuestionType(pair.Question)
		item := models.BatchItem{Question: pair.Question, Type: qType}

		if err := ctx.Err(); err != nil {
			item.Err = err
			items = append(items, item)
			continue
		}

		log.Printf("🔄 Evaluating answer %d/%d\n", i+1, len(pairs))
		result, err := e.Evaluate(ctx, pair.Question, pair.Answer)
		if err != nil {
			log.Printf("❌ Failed to evaluate %q: %v\n", pair.Question, err)
			item.Err = err
		} else {
			item.Result = result
		}
		items = append(items, item)
	}

	return items
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
