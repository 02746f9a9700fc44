package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type retryingGenerator struct {
	next         TextGenerator
	maxAttempts  int
	initialDelay time.Duration
}

// NewRetryingGenerator retries failed generations with exponential backoff.
// Exhausted attempts are reported as ErrExternalService.
func NewRetryingGenerator(next TextGenerator, maxAttempts int, initialDelay time.Duration) TextGenerator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryingGenerator{
		next:         next,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
	}
}

func (r *retryingGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	policy := backoff.NewExponentialBackOff()
	if r.initialDelay > 0 {
		policy.InitialInterval = r.initialDelay
	}
	policy.MaxElapsedTime = 0

	var (
		result  string
		attempt int
	)

	operation := func() error {
		attempt++
		text, err := r.next.GenerateText(ctx, prompt, temperature)
		if err != nil {
			if attempt < r.maxAttempts {
				log.Printf("⚠️ Attempt %d failed: %v. Retrying...\n", attempt, err)
			}
			return err
		}
		result = text
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("context cancelled: %w", ctxErr)
		}
		return "", fmt.Errorf("%w: failed after %d attempts: %v", ErrExternalService, attempt, err)
	}

	return result, nil
}
