package services

import (
	"regexp"
	"strings"
)

var (
	instructionalOpening = regexp.MustCompile(`(?i)^\s*(start with|start by|begin by|begin with|remember that|remember to|best answer|example:|sample answer:|to answer this question|when answering|in your answer|your answer should|the interviewer (wants|is)|this question is|focus on|try to|avoid)`)
	instructionalVoice   = regexp.MustCompile(`(?i)\b(you should|you must|always|never|exercise)\b`)
)

// IsInstructionalAnswer reports whether a stored HR answer is coaching advice
// rather than something a candidate would actually say.
func IsInstructionalAnswer(answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	return instructionalOpening.MatchString(answer) || instructionalVoice.MatchString(answer)
}
