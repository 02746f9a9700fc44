package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-evaluator/internal/models"
)

type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*models.Session
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*models.Session{}}
}

func (r *fakeSessionRepo) Create(session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) FindByID(id uuid.UUID) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

func (r *fakeSessionRepo) Claim(id uuid.UUID) (bool, error) { return true, nil }

func (r *fakeSessionRepo) UpdateResults(id uuid.UUID, results []models.SessionItem) error {
	return nil
}

func (r *fakeSessionRepo) UpdateError(id uuid.UUID, errorMsg string) error { return nil }

func (r *fakeSessionRepo) FindPendingJobs(limit int) ([]models.Session, error) { return nil, nil }

type fakeWorker struct {
	enqueued []uuid.UUID
}

func (w *fakeWorker) Start(ctx context.Context) {}

func (w *fakeWorker) Stop() {}

func (w *fakeWorker) EnqueueJob(sessionID uuid.UUID) {
	w.enqueued = append(w.enqueued, sessionID)
}

type fakeEvaluator struct {
	result *models.EvaluationResult
	err    error
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, question, answer string) (*models.EvaluationResult, error) {
	return f.result, f.err
}

func (f *fakeEvaluator) EvaluateBatch(ctx context.Context, pairs []models.AnswerPair) []models.BatchItem {
	return nil
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target), string(body))
}
