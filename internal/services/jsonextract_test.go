package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain_object",
			input:    `{"overall_score": 80}`,
			expected: `{"overall_score": 80}`,
		},
		{
			name:     "object_in_prose",
			input:    `Here is my evaluation: {"a": 1} hope it helps {"b": 2}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "markdown_fenced",
			input:    "```json\n{\"scores\": [{\"name\": \"Clarity\"}]}\n```",
			expected: `{"scores": [{"name": "Clarity"}]}`,
		},
		{
			name:     "array_first",
			input:    `Relevant: ["What is Go?", "What is a channel?"] and {"x": 1}`,
			expected: `["What is Go?", "What is a channel?"]`,
		},
		{
			name:     "nested_object",
			input:    `{"a": {"b": {"c": [1, 2]}}} trailing`,
			expected: `{"a": {"b": {"c": [1, 2]}}}`,
		},
		{
			name:     "brackets_inside_strings",
			input:    `{"explanation": "uses } and { freely, even \"quoted }\""}`,
			expected: `{"explanation": "uses } and { freely, even \"quoted }\""}`,
		},
		{
			name:     "other_bracket_kind_ignored",
			input:    `[{"a": "]"}, {"b": 2}]`,
			expected: `[{"a": "]"}, {"b": 2}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := ExtractJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(raw))
		})
	}
}

func TestExtractJSON_NotFound(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"",
		"NO",
		"no brackets at all",
		`{"unterminated": [1, 2`,
		`{"a": "}"`,
		`{not json}`,
	} {
		_, err := ExtractJSON(input)
		assert.ErrorIs(t, err, ErrNoStructuredData, "input %q", input)
	}
}

func TestExtractJSON_Idempotent(t *testing.T) {
	t.Parallel()

	text := `Sure! {"scores": [{"name": "Clarity", "score": 80}], "overall_score": 80}`

	first, err := ExtractJSON(text)
	require.NoError(t, err)
	second, err := ExtractJSON(text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var questions []string
	require.NoError(t, DecodeJSON(`The relevant ones are ["A", "B"].`, &questions))
	assert.Equal(t, []string{"A", "B"}, questions)

	var wrongShape []string
	err := DecodeJSON(`{"a": 1}`, &wrongShape)
	assert.ErrorIs(t, err, ErrNoStructuredData)

	var obj map[string]json.RawMessage
	assert.ErrorIs(t, DecodeJSON("nothing here", &obj), ErrNoStructuredData)
}
