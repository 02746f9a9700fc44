package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionType(t *testing.T) {
	t.Parallel()

	for input, expected := range map[string]QuestionType{
		"Technical":  QuestionTypeTechnical,
		" technical": QuestionTypeTechnical,
		"HR":         QuestionTypeHR,
		"hr ":        QuestionTypeHR,
	} {
		qType, err := ParseQuestionType(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, qType, input)
	}

	_, err := ParseQuestionType("behavioural")
	assert.Error(t, err)
}
