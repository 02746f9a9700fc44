package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-evaluator/internal/models"
	"alfredoptarigan/interview-evaluator/internal/repositories"
	"alfredoptarigan/interview-evaluator/internal/services"
)

type EvaluationHandler struct {
	sessionRepo repositories.SessionRepository
	evaluator   services.EvaluatorService
	worker      services.Worker
}

func NewEvaluationHandler(
	sessionRepo repositories.SessionRepository,
	evaluator services.EvaluatorService,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		sessionRepo: sessionRepo,
		evaluator:   evaluator,
		worker:      worker,
	}
}

// HandleEvaluate handles POST /evaluate
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if len(req.Answers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "answers must contain at least one question/answer pair",
		})
	}

	for i, a := range req.Answers {
		if strings.TrimSpace(a.Question) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("answers[%d].question is required", i),
			})
		}
	}

	session := &models.Session{
		ID:            uuid.New(),
		CandidateName: req.CandidateName,
		Status:        models.StatusQueued,
		Answers:       req.Answers,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := h.sessionRepo.Create(session); err != nil {
		log.Printf("❌ Failed to create session: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation session",
		})
	}

	h.worker.EnqueueJob(session.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     session.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleEvaluateAnswer handles POST /evaluate/answer synchronously.
func (h *EvaluationHandler) HandleEvaluateAnswer(c *fiber.Ctx) error {
	var req models.EvaluateAnswerRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "question is required",
		})
	}

	result, err := h.evaluator.Evaluate(c.UserContext(), req.Question, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownQuestion):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, services.ErrExternalService):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(result)
}
