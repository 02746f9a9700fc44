package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/interview-evaluator/internal/models"
	"alfredoptarigan/interview-evaluator/internal/repositories"
)

type ResultHandler struct {
	sessionRepo repositories.SessionRepository
}

func NewResultHandler(sessionRepo repositories.SessionRepository) *ResultHandler {
	return &ResultHandler{
		sessionRepo: sessionRepo,
	}
}

func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	sessionID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	session, err := h.sessionRepo.FindByID(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	response := models.ResultResponse{
		ID:            session.ID.String(),
		Status:        string(session.Status),
		CandidateName: session.CandidateName,
	}

	if session.Status == models.StatusCompleted {
		response.Results = session.Results
	}

	if session.Status == models.StatusFailed && session.ErrorMessage != nil && *session.ErrorMessage != "" {
		response.ErrorMessage = session.ErrorMessage
	}

	return c.JSON(response)
}
