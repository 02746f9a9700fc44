package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the first balanced JSON object or array in text.
// Only the bracket kind that opened the span is counted, and brackets inside
// string literals are skipped. Returns ErrNoStructuredData when no span closes
// or the span is not valid JSON.
func ExtractJSON(text string) (json.RawMessage, error) {
	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return nil, ErrNoStructuredData
	}

	open := text[start]
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				span := text[start : i+1]
				if !json.Valid([]byte(span)) {
					return nil, fmt.Errorf("%w: invalid JSON span", ErrNoStructuredData)
				}
				return json.RawMessage(span), nil
			}
		}
	}

	return nil, ErrNoStructuredData
}

// DecodeJSON extracts the first JSON span from text and unmarshals it into target.
func DecodeJSON(text string, target interface{}) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrNoStructuredData, err)
	}

	return nil
}
