package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalRecord is a previously scored question/answer pair from a dataset.
type HistoricalRecord struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuestionType QuestionType `gorm:"type:text;not null;uniqueIndex:idx_type_question" json:"question_type"`
	Question     string       `gorm:"type:text;not null;uniqueIndex:idx_type_question" json:"question"`
	Answer       string       `gorm:"type:text" json:"answer"`
	OverallScore float64      `gorm:"type:decimal(5,2)" json:"overall_score"`
	CreatedAt    time.Time    `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (HistoricalRecord) TableName() string {
	return "historical_records"
}
