package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusQueued     SessionStatus = "queued"
	StatusProcessing SessionStatus = "processing"
	StatusCompleted  SessionStatus = "completed"
	StatusFailed     SessionStatus = "failed"
)

// Session is one interview submitted for asynchronous evaluation.
type Session struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateName string        `gorm:"type:text" json:"candidate_name"`
	Status        SessionStatus `gorm:"not null;default:'queued'" json:"status"`
	Answers       []AnswerPair  `gorm:"type:jsonb;serializer:json" json:"answers"`
	Results       []SessionItem `gorm:"type:jsonb;serializer:json" json:"results,omitempty"`
	ErrorMessage  *string       `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}

type AnswerPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CriterionScore struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// RubricReport is the per-criterion outcome of scoring one answer.
// OverallScore is always the mean of Scores rounded to 2 decimals.
type RubricReport struct {
	Scores       []CriterionScore `json:"scores"`
	OverallScore float64          `json:"overall_score"`
}

type EvaluationResult struct {
	Question           string        `json:"question"`
	Type               QuestionType  `json:"type"`
	OldDatasetScore    float64       `json:"old_dataset_score"`
	RubricScore        float64       `json:"rubric_score"`
	FinalCombinedScore float64       `json:"final_combined_score"`
	RubricBreakdown    *RubricReport `json:"rubric_breakdown"`
}

// BatchItem holds either a result or the error that failed its pair.
type BatchItem struct {
	Result   *EvaluationResult
	Question string
	Type     QuestionType
	Err      error
}

// SessionItem is the persisted per-answer outcome of a session.
type SessionItem struct {
	Question   string            `json:"question"`
	Type       QuestionType      `json:"type,omitempty"`
	Evaluation *EvaluationResult `json:"evaluation,omitempty"`
	Grammar    *GrammarResult    `json:"grammar,omitempty"`
	Error      string            `json:"error,omitempty"`
}
