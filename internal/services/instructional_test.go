package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInstructionalAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		answer   string
		expected bool
	}{
		{answer: "Start with your current role and a recent achievement.", expected: true},
		{answer: "BEST ANSWER: mention a weakness you are actively fixing.", expected: true},
		{answer: "Example: I once led a migration under a tight deadline.", expected: true},
		{answer: "To answer this question, talk about the company's mission.", expected: true},
		{answer: "The interviewer wants to know how you handle pressure.", expected: true},
		{answer: "Be honest, but you should never criticise a former employer.", expected: true},
		{answer: "I am a backend engineer with five years of experience.", expected: false},
		{answer: "My weakness is public speaking, so I joined a local club.", expected: false},
		{answer: "I started with small refactors and grew from there.", expected: false},
		{answer: "", expected: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsInstructionalAnswer(tt.answer), tt.answer)
	}
}
