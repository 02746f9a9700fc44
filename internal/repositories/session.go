package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-evaluator/internal/models"
)

type SessionRepository interface {
	Create(session *models.Session) error
	FindByID(id uuid.UUID) (*models.Session, error)
	Claim(id uuid.UUID) (bool, error)
	UpdateResults(id uuid.UUID, results []models.SessionItem) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *models.Session) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepository) FindByID(id uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

// Claim moves a queued session to processing. It reports false when the
// session was not queued, e.g. another worker already took it.
func (r *sessionRepository) Claim(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.Session{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim session: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// UpdateResults marks the session completed. Struct updates go through the
// JSON serializer, map updates would not.
func (r *sessionRepository) UpdateResults(id uuid.UUID, results []models.SessionItem) error {
	result := r.db.Model(&models.Session{}).
		Where("id = ?", id).
		Select("status", "results", "updated_at").
		Updates(&models.Session{
			Status:    models.StatusCompleted,
			Results:   results,
			UpdatedAt: time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update results: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

func (r *sessionRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

func (r *sessionRepository) FindPendingJobs(limit int) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&sessions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return sessions, nil
}
