package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-evaluator/internal/models"
	"alfredoptarigan/interview-evaluator/internal/services"
)

type GrammarHandler struct {
	checker *services.GrammarChecker
}

func NewGrammarHandler(checker *services.GrammarChecker) *GrammarHandler {
	return &GrammarHandler{checker: checker}
}

// HandleCheck handles POST /grammar
func (h *GrammarHandler) HandleCheck(c *fiber.Ctx) error {
	var req models.GrammarRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	return c.JSON(h.checker.Check(c.UserContext(), req.Text, req.ForceAI))
}
