package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-evaluator/internal/config"
	"alfredoptarigan/interview-evaluator/internal/models"
	"alfredoptarigan/interview-evaluator/internal/services"
)

type noMatchesEngine struct{}

func (noMatchesEngine) Check(ctx context.Context, text string) ([]services.GrammarMatch, error) {
	return nil, nil
}

func TestHandleGrammarCheck(t *testing.T) {
	t.Parallel()

	checker := services.NewGrammarChecker(noMatchesEngine{}, nil, config.GrammarConfig{MinimalWords: 5})
	app := fiber.New()
	app.Post("/grammar", NewGrammarHandler(checker).HandleCheck)

	tests := []struct {
		name         string
		body         string
		expectedCode int
		expectedType models.AnalysisType
		score        float64
	}{
		{
			name:         "spoken_answer",
			body:         `{"text": "um so I think uh this is correct"}`,
			expectedCode: fiber.StatusOK,
			expectedType: models.AnalysisLocalOnly,
			score:        80,
		},
		{
			name:         "empty",
			body:         `{"text": ""}`,
			expectedCode: fiber.StatusOK,
			expectedType: models.AnalysisEmpty,
			score:        0,
		},
		{
			name:         "malformed",
			body:         `{"text": `,
			expectedCode: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(fiber.MethodPost, "/grammar", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, tt.expectedCode, resp.StatusCode)
			if tt.expectedCode != fiber.StatusOK {
				return
			}

			var out models.GrammarResult
			decodeBody(t, resp, &out)
			assert.Equal(t, tt.expectedType, out.AnalysisType)
			assert.Equal(t, tt.score, out.GrammarScore)
		})
	}
}
