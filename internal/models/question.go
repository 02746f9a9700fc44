package models

import (
	"fmt"
	"strings"
)

type QuestionType string

const (
	QuestionTypeTechnical QuestionType = "Technical"
	QuestionTypeHR        QuestionType = "HR"
)

// ParseQuestionType accepts the canonical names case-insensitively.
func ParseQuestionType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "technical":
		return QuestionTypeTechnical, nil
	case "hr":
		return QuestionTypeHR, nil
	default:
		return "", fmt.Errorf("unknown question type %q", s)
	}
}

type Criterion struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// Rubric is an ordered list of criteria.
type Rubric []Criterion
