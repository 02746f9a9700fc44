package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-evaluator/internal/models"
	"alfredoptarigan/interview-evaluator/internal/services"
)

// Reloader refreshes in-memory state after new data is stored.
type Reloader interface {
	Reload() error
}

type UploadHandler struct {
	storageService services.StorageService
	ingestion      *services.IngestionService
	historical     Reloader
	maxFileSize    int64
}

func NewUploadHandler(
	storageService services.StorageService,
	ingestion *services.IngestionService,
	historical Reloader,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
		ingestion:      ingestion,
		historical:     historical,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /datasets with a "dataset" CSV file and a "type"
// field. The upload replaces the stored dataset of that type.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	qType, err := models.ParseQuestionType(c.FormValue("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type must be Technical or HR",
		})
	}

	file, err := c.FormFile("dataset")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No dataset uploaded. Please upload a 'dataset' CSV file.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Dataset file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveDataset(file, qType)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save dataset file: %v", err),
		})
	}

	indexed, err := h.ingestion.IngestFile(c.UserContext(), filePath, qType)
	if err != nil {
		if derr := h.storageService.DeleteFile(filename); derr != nil {
			log.Printf("⚠️  Failed to remove rejected dataset %s: %v\n", filename, derr)
		}
		if errors.Is(err, services.ErrExternalService) {
			// The stored records may already have been replaced
			h.reload()
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to index dataset: %v", err),
			})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to ingest dataset: %v", err),
		})
	}

	h.reload()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Dataset ingested successfully",
		"dataset": models.UploadResponse{
			Filename:     filename,
			OriginalName: file.Filename,
			QuestionType: qType,
			Records:      indexed,
		},
	})
}

func (h *UploadHandler) reload() {
	if err := h.historical.Reload(); err != nil {
		log.Printf("⚠️  Dataset stored but historical store reload failed: %v\n", err)
	}
}
