package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-evaluator/internal/models"
	"alfredoptarigan/interview-evaluator/internal/services"
)

type memoryHistorical struct {
	records map[models.QuestionType][]models.HistoricalRecord
}

func (m *memoryHistorical) ReplaceType(qType models.QuestionType, records []models.HistoricalRecord) error {
	m.records[qType] = records
	return nil
}

type constantEmbedder struct{}

func (constantEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type unavailableEmbedder struct{}

func (unavailableEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedding service unavailable")
}

type memoryIndex struct {
	questions map[string]models.QuestionType
	clears    int
}

func (m *memoryIndex) UpsertQuestion(ctx context.Context, qType models.QuestionType, question string, embedding []float32) error {
	m.questions[question] = qType
	return nil
}

func (m *memoryIndex) DeleteQuestionType(ctx context.Context, qType models.QuestionType) error {
	m.clears++
	for q, t := range m.questions {
		if t == qType {
			delete(m.questions, q)
		}
	}
	return nil
}

type countingReloader struct {
	reloads int
}

func (c *countingReloader) Reload() error {
	c.reloads++
	return nil
}

func multipartDataset(t *testing.T, qType, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("type", qType))
	part, err := w.CreateFormFile("dataset", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func TestHandleUpload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := &memoryHistorical{records: map[models.QuestionType][]models.HistoricalRecord{}}
	index := &memoryIndex{questions: map[string]models.QuestionType{}}
	reloader := &countingReloader{}
	ingestion := services.NewIngestionService(repo, constantEmbedder{}, index)
	h := NewUploadHandler(services.NewStorageService(dir), ingestion, reloader, 1<<20)

	app := fiber.New()
	app.Post("/datasets", h.HandleUpload)

	t.Run("ingests_csv", func(t *testing.T) {
		body, contentType := multipartDataset(t, "hr", "hr.csv",
			"question,answer,overall_score\nWhy us?,I admire the product.,75\nTell me about yourself.,I build APIs.,80\n")
		req := httptest.NewRequest(fiber.MethodPost, "/datasets", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var out struct {
			Dataset models.UploadResponse `json:"dataset"`
		}
		decodeBody(t, resp, &out)
		assert.Equal(t, models.QuestionTypeHR, out.Dataset.QuestionType)
		assert.Equal(t, "hr.csv", out.Dataset.OriginalName)
		assert.Equal(t, 2, out.Dataset.Records)

		assert.Len(t, repo.records[models.QuestionTypeHR], 2)
		assert.Len(t, index.questions, 2)
		assert.Equal(t, 1, reloader.reloads)
	})

	t.Run("replaces_previous_upload", func(t *testing.T) {
		body, contentType := multipartDataset(t, "HR", "hr-v2.csv",
			"question,answer,overall_score\nTell me about yourself.,I lead a platform team.,85\n")
		req := httptest.NewRequest(fiber.MethodPost, "/datasets", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		assert.Equal(t, 2, index.clears)
		assert.NotContains(t, index.questions, "Why us?")
		assert.Contains(t, index.questions, "Tell me about yourself.")
		require.Len(t, repo.records[models.QuestionTypeHR], 1)
		assert.Equal(t, 85.0, repo.records[models.QuestionTypeHR][0].OverallScore)
		assert.Equal(t, 2, reloader.reloads)
	})

	t.Run("rejects_bad_csv", func(t *testing.T) {
		body, contentType := multipartDataset(t, "Technical", "broken.csv", "question,answer\nWhat is Go?,A language.\n")
		req := httptest.NewRequest(fiber.MethodPost, "/datasets", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, 2, reloader.reloads)

		// The rejected upload is not left behind.
		entries, err := os.ReadDir(filepath.Join(dir, "technical"))
		require.NoError(t, err)
		assert.Empty(t, entries)

		entries, err = os.ReadDir(filepath.Join(dir, "hr"))
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("rejects_unknown_type", func(t *testing.T) {
		body, contentType := multipartDataset(t, "behavioural", "hr.csv", "question,answer,overall_score\n")
		req := httptest.NewRequest(fiber.MethodPost, "/datasets", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects_non_csv", func(t *testing.T) {
		body, contentType := multipartDataset(t, "hr", "answers.pdf", "%PDF-1.4")
		req := httptest.NewRequest(fiber.MethodPost, "/datasets", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleUpload_IndexUnavailable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo := &memoryHistorical{records: map[models.QuestionType][]models.HistoricalRecord{}}
	index := &memoryIndex{questions: map[string]models.QuestionType{"Why us?": models.QuestionTypeHR}}
	ingestion := services.NewIngestionService(repo, unavailableEmbedder{}, index)
	h := NewUploadHandler(services.NewStorageService(dir), ingestion, &countingReloader{}, 1<<20)

	app := fiber.New()
	app.Post("/datasets", h.HandleUpload)

	body, contentType := multipartDataset(t, "HR", "hr.csv",
		"question,answer,overall_score\nTell me about yourself.,I build APIs.,80\n")
	req := httptest.NewRequest(fiber.MethodPost, "/datasets", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	// The previous dataset stays in place
	assert.Contains(t, index.questions, "Why us?")
	assert.Zero(t, index.clears)
	assert.Empty(t, repo.records)

	entries, err := os.ReadDir(filepath.Join(dir, "hr"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
