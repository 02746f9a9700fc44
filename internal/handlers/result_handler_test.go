package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-evaluator/internal/models"
)

func TestHandleGetResult(t *testing.T) {
	t.Parallel()

	failure := "evaluation interrupted: context canceled"
	completed := &models.Session{
		ID:     uuid.New(),
		Status: models.StatusCompleted,
		Results: []models.SessionItem{{
			Question:   "Why us?",
			Type:       models.QuestionTypeHR,
			Evaluation: &models.EvaluationResult{FinalCombinedScore: 81.5},
		}},
	}
	failed := &models.Session{ID: uuid.New(), Status: models.StatusFailed, ErrorMessage: &failure}
	queued := &models.Session{ID: uuid.New(), Status: models.StatusQueued}

	repo := newFakeSessionRepo()
	for _, s := range []*models.Session{completed, failed, queued} {
		require.NoError(t, repo.Create(s))
	}

	app := fiber.New()
	app.Get("/result/:id", NewResultHandler(repo).HandleGetResult)

	t.Run("completed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/result/"+completed.ID.String(), nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out models.ResultResponse
		decodeBody(t, resp, &out)
		assert.Equal(t, "completed", out.Status)
		require.Len(t, out.Results, 1)
		assert.Equal(t, 81.5, out.Results[0].Evaluation.FinalCombinedScore)
		assert.Nil(t, out.ErrorMessage)
	})

	t.Run("failed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/result/"+failed.ID.String(), nil), -1)
		require.NoError(t, err)

		var out models.ResultResponse
		decodeBody(t, resp, &out)
		assert.Equal(t, "failed", out.Status)
		require.NotNil(t, out.ErrorMessage)
		assert.Equal(t, failure, *out.ErrorMessage)
		assert.Empty(t, out.Results)
	})

	t.Run("queued", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/result/"+queued.ID.String(), nil), -1)
		require.NoError(t, err)

		var out models.ResultResponse
		decodeBody(t, resp, &out)
		assert.Equal(t, "queued", out.Status)
		assert.Empty(t, out.Results)
	})

	t.Run("not_found", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/result/"+uuid.NewString(), nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid_id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/result/not-a-uuid", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
