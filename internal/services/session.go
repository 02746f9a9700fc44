package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"alfredoptarigan/interview-evaluator/internal/models"
	"alfredoptarigan/interview-evaluator/internal/repositories"
)

type SessionProcessor interface {
	ProcessSession(ctx context.Context, sessionID uuid.UUID) error
}

type sessionProcessor struct {
	sessionRepo repositories.SessionRepository
	evaluator   EvaluatorService
	grammar     *GrammarChecker
}

func NewSessionProcessor(
	sessionRepo repositories.SessionRepository,
	evaluator EvaluatorService,
	grammar *GrammarChecker,
) SessionProcessor {
	return &sessionProcessor{
		sessionRepo: sessionRepo,
		evaluator:   evaluator,
		grammar:     grammar,
	}
}

// ProcessSession evaluates every answer of a queued session and stores one
// item per answer. Sessions no longer queued are skipped.
func (p *sessionProcessor) ProcessSession(ctx context.Context, sessionID uuid.UUID) error {
	session, err := p.sessionRepo.FindByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	claimed, err := p.sessionRepo.Claim(sessionID)
	if err != nil {
		return fmt.Errorf("failed to claim session: %w", err)
	}
	if !claimed {
		log.Printf("⏭️  Session %s is no longer queued, skipping\n", sessionID)
		return nil
	}

	log.Printf("🔄 Starting evaluation for session %s (%d answers)\n", sessionID, len(session.Answers))

	batch := p.evaluator.EvaluateBatch(ctx, session.Answers)

	results := make([]models.SessionItem, 0, len(batch))
	for i, b := range batch {
		item := models.SessionItem{Question: b.Question, Type: b.Type}
		if b.Err != nil {
			item.Error = b.Err.Error()
		} else {
			item.Evaluation = b.Result
		}

		if p.grammar != nil && i < len(session.Answers) {
			log.Printf("📝 Checking grammar for answer %d/%d\n", i+1, len(batch))
			item.Grammar = p.grammar.Check(ctx, session.Answers[i].Answer, false)
		}

		results = append(results, item)
	}

	// The caller records the failure on the session
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("evaluation interrupted: %w", err)
	}

	log.Println("💾 Saving session results...")
	if err := p.sessionRepo.UpdateResults(sessionID, results); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Evaluation completed successfully for session %s\n", sessionID)
	return nil
}
