package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"alfredoptarigan/interview-evaluator/internal/models"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	respond func(prompt string) (string, error)
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeGenerator) calls(marker string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, marker) {
			n++
		}
	}
	return n
}

func (f *fakeGenerator) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// sequence hands out responses in call order, so parallel runs each get one.
func sequence(responses ...string) func(string) (string, error) {
	var (
		mu sync.Mutex
		n  int
	)
	return func(string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		r := responses[n%len(responses)]
		n++
		return r, nil
	}
}

type fakeIndex struct {
	neighbors map[string][]string
	err       error
}

func (f *fakeIndex) Nearest(ctx context.Context, qType models.QuestionType, question string, limit int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := f.neighbors[question]
	if len(n) > limit {
		n = n[:limit]
	}
	return n, nil
}

type fakeHistoricalSource struct {
	records []models.HistoricalRecord
	err     error
}

func (f *fakeHistoricalSource) FindAll() ([]models.HistoricalRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeEngine struct {
	matches []GrammarMatch
	err     error
	texts   []string
}

func (f *fakeEngine) Check(ctx context.Context, text string) ([]GrammarMatch, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

var errUpstream = errors.New("upstream unavailable")
