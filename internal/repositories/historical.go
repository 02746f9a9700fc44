package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-evaluator/internal/models"
)

type HistoricalRepository interface {
	FindAll() ([]models.HistoricalRecord, error)
	ReplaceType(qType models.QuestionType, records []models.HistoricalRecord) error
}

type historicalRepository struct {
	db *gorm.DB
}

func NewHistoricalRepository(db *gorm.DB) HistoricalRepository {
	return &historicalRepository{db: db}
}

// FindAll implements HistoricalRepository.
func (r *historicalRepository) FindAll() ([]models.HistoricalRecord, error) {
	var records []models.HistoricalRecord
	if err := r.db.Order("question_type, question").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find historical records: %w", err)
	}
	return records, nil
}

// ReplaceType implements HistoricalRepository. The type's existing rows are
// removed and records stored in their place, in one transaction.
func (r *historicalRepository) ReplaceType(qType models.QuestionType, records []models.HistoricalRecord) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return replaceType(tx, qType, records)
	})
	if err != nil {
		return fmt.Errorf("failed to replace historical records: %w", err)
	}
	return nil
}

func replaceType(tx *gorm.DB, qType models.QuestionType, records []models.HistoricalRecord) error {
	if err := tx.Where("question_type = ?", qType).Delete(&models.HistoricalRecord{}).Error; err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.HistoricalRecord, len(records))
	for i, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		rec.QuestionType = qType
		rec.CreatedAt = now
		rec.UpdatedAt = now
		rows[i] = rec
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_type"}, {Name: "question"}},
		DoUpdates: clause.AssignmentColumns([]string{"answer", "overall_score", "updated_at"}),
	}).CreateInBatches(rows, 200).Error
}
