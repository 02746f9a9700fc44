package services

import (
	"fmt"
	"strings"
	"sync/atomic"

	"alfredoptarigan/interview-evaluator/internal/models"
)

// HistoricalSource provides every stored historical record.
type HistoricalSource interface {
	FindAll() ([]models.HistoricalRecord, error)
}

type historicalEntry struct {
	answer string
	score  float64
}

// HistoricalSnapshot is an immutable view of the historical datasets keyed by
// exact question text.
type HistoricalSnapshot struct {
	entries map[models.QuestionType]map[string]historicalEntry
}

func NewHistoricalSnapshot(records []models.HistoricalRecord) *HistoricalSnapshot {
	s := &HistoricalSnapshot{entries: make(map[models.QuestionType]map[string]historicalEntry)}
	for _, r := range records {
		byQuestion, ok := s.entries[r.QuestionType]
		if !ok {
			byQuestion = make(map[string]historicalEntry)
			s.entries[r.QuestionType] = byQuestion
		}
		byQuestion[strings.TrimSpace(r.Question)] = historicalEntry{answer: r.Answer, score: r.OverallScore}
	}
	return s
}

func (s *HistoricalSnapshot) Score(qType models.QuestionType, question string) (float64, bool) {
	e, ok := s.entries[qType][strings.TrimSpace(question)]
	return e.score, ok
}

func (s *HistoricalSnapshot) Answer(qType models.QuestionType, question string) (string, bool) {
	e, ok := s.entries[qType][strings.TrimSpace(question)]
	return e.answer, ok
}

func (s *HistoricalSnapshot) Count(qType models.QuestionType) int {
	return len(s.entries[qType])
}

// HistoricalStore serves the current snapshot. Reload swaps in a new snapshot
// without touching the one readers already hold.
type HistoricalStore struct {
	source  HistoricalSource
	current atomic.Pointer[HistoricalSnapshot]
}

func NewHistoricalStore(source HistoricalSource) (*HistoricalStore, error) {
	h := &HistoricalStore{source: source}
	if err := h.Reload(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *HistoricalStore) Reload() error {
	records, err := h.source.FindAll()
	if err != nil {
		return fmt.Errorf("failed to load historical records: %w", err)
	}
	h.current.Store(NewHistoricalSnapshot(records))
	return nil
}

func (h *HistoricalStore) Snapshot() *HistoricalSnapshot {
	return h.current.Load()
}
