package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	"alfredoptarigan/interview-evaluator/internal/config"
	"alfredoptarigan/interview-evaluator/internal/models"
)

// Filler patterns, each counted separately. Vowel runs like "umm" or "uhhh"
// count as one filler.
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bu+m+\b`),
	regexp.MustCompile(`(?i)\bu+h+\b`),
	regexp.MustCompile(`(?i)\byou know\b`),
	regexp.MustCompile(`(?i)\blike\b`),
	regexp.MustCompile(`(?i)\bwell\b`),
	regexp.MustCompile(`(?i)\bso\b`),
	regexp.MustCompile(`(?i)\bactually\b`),
	regexp.MustCompile(`(?i)\bbasically\b`),
	regexp.MustCompile(`(?i)\bh+m+\b`),
	regexp.MustCompile(`(?i)\ba+h+\b`),
	regexp.MustCompile(`(?i)\bo+h+\b`),
}

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([,.!?;:])`)
	repeatedCommas   = regexp.MustCompile(`,(\s*,)+`)
	leadingPunct     = regexp.MustCompile(`^[\s,;:.]+`)
	punctBeforeStop  = regexp.MustCompile(`[,;:]+([.!?])`)
	missingSpace     = regexp.MustCompile(`([,;:])(\p{L})`)
)

var (
	casualPunctuationRules = map[string]bool{
		"COMMA_PARENTHESIS_WHITESPACE": true,
		"WHITESPACE_RULE":              true,
		"UPPERCASE_SENTENCE_START":     true,
		"PUNCTUATION_PARAGRAPH_END":    true,
		"DOUBLE_PUNCTUATION":           true,
		"EN_QUOTES":                    true,
		"EN_UNPAIRED_BRACKETS":         true,
		"COMMA_COMPOUND_SENTENCE":      true,
		"COMMA_COMPOUND_SENTENCE_2":    true,
		"SENTENCE_WHITESPACE":          true,
		"I_LOWERCASE":                  true,
	}
	casualPunctuationCategories = map[string]bool{
		"PUNCTUATION": true,
		"TYPOGRAPHY":  true,
		"CASING":      true,
	}
	formalRules = map[string]bool{
		"SENTENCE_FRAGMENT":        true,
		"PASSIVE_VOICE":            true,
		"TOO_LONG_SENTENCE":        true,
		"WORDINESS":                true,
		"EN_PLAIN_ENGLISH_REPLACE": true,
		"READABILITY_RULE_SIMPLE":  true,
	}
	formalCategories = map[string]bool{
		"STYLE":         true,
		"REDUNDANCY":    true,
		"PLAIN_ENGLISH": true,
	}
	speechRules = map[string]bool{
		"ENGLISH_WORD_REPEAT_RULE": true,
		"EN_REPEATEDWORDS_LIKE":    true,
		"SO_AS_TO":                 true,
		"THE_SUPERLATIVE":          true,
	}
	artifactWords = []string{"inaudible", "crosstalk", "unintelligible"}
)

// GrammarChecker scores the grammar of transcribed speech. Check always
// returns a result; failures of either engine degrade to a simpler analysis.
type GrammarChecker struct {
	engine        GrammarEngine
	generator     TextGenerator
	promptBuilder *PromptBuilder
	cfg           config.GrammarConfig
}

// NewGrammarChecker accepts a nil generator, which disables AI escalation.
func NewGrammarChecker(engine GrammarEngine, generator TextGenerator, cfg config.GrammarConfig) *GrammarChecker {
	if cfg.MinimalWords <= 0 {
		cfg.MinimalWords = 5
	}
	return &GrammarChecker{
		engine:        engine,
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		cfg:           cfg,
	}
}

// CleanSpeech strips filler words and tidies punctuation. It returns the
// cleaned text and the number of fillers removed.
func CleanSpeech(text string) (string, int) {
	cleaned := strings.Join(strings.Fields(text), " ")

	fillers := 0
	for _, p := range fillerPatterns {
		fillers += len(p.FindAllStringIndex(cleaned, -1))
		cleaned = p.ReplaceAllString(cleaned, "")
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")
	cleaned = spaceBeforePunct.ReplaceAllString(cleaned, "$1")
	cleaned = repeatedCommas.ReplaceAllString(cleaned, ",")
	cleaned = punctBeforeStop.ReplaceAllString(cleaned, "$1")
	cleaned = missingSpace.ReplaceAllString(cleaned, "$1 $2")
	cleaned = leadingPunct.ReplaceAllString(cleaned, "")

	return strings.TrimSpace(cleaned), fillers
}

// LocalGrammarScore is 100 minus capped grammar and filler penalties, floored at 10.
func LocalGrammarScore(errorRate, fillerRate float64) float64 {
	score := 100 - grammarPenalty(errorRate) - fillerPenalty(fillerRate)
	return round1(math.Max(score, 10))
}

func grammarPenalty(errorRate float64) float64 {
	return math.Min(errorRate*150, 40)
}

func fillerPenalty(fillerRate float64) float64 {
	return math.Min(fillerRate*100, 20)
}

func (g *GrammarChecker) Check(ctx context.Context, text string, forceAI bool) *models.GrammarResult {
	if strings.TrimSpace(text) == "" {
		return &models.GrammarResult{
			GrammarScore:      0,
			Suggestions:       []string{"No speech was detected. Make sure your microphone is working and answer out loud."},
			OverallAssessment: "No speech to analyse.",
			AnalysisType:      models.AnalysisEmpty,
		}
	}

	originalWords := len(strings.Fields(text))
	cleaned, fillers := CleanSpeech(text)
	fillerRate := float64(fillers) / float64(originalWords)
	words := len(strings.Fields(cleaned))

	result := &models.GrammarResult{
		FillerCount: fillers,
		FillerRate:  round2(fillerRate),
		WordCount:   words,
		CleanedText: cleaned,
	}

	if words < g.cfg.MinimalWords {
		result.GrammarScore = 85
		result.AnalysisType = models.AnalysisMinimal
		result.OverallAssessment = "The answer is too short to judge grammar reliably."
		result.Suggestions = []string{"Give fuller answers so your grammar and fluency can be assessed."}
		if fillers > 0 {
			result.Suggestions = append(result.Suggestions, fillerSuggestion(fillers))
		}
		return result
	}

	localFailed := false
	matches, err := g.engine.Check(ctx, cleaned)
	if err != nil {
		log.Printf("⚠️  Local grammar check failed: %v\n", err)
		localFailed = true
	}

	grammarErrors := FilterGrammarMatches(cleaned, matches)
	errorRate := float64(len(grammarErrors)) / float64(words)
	local := LocalGrammarScore(errorRate, fillerRate)

	result.ErrorCount = len(grammarErrors)
	result.Errors = grammarErrors
	result.GrammarScore = local
	result.AnalysisType = models.AnalysisLocalOnly

	if g.shouldEscalate(forceAI || localFailed, words, errorRate) {
		if ai, ok := g.assessWithAI(ctx, cleaned); ok {
			aiScore := math.Max(ai.score-fillerPenalty(fillerRate), 10)
			result.GrammarScore = round1(clampScore(0.4*local + 0.6*aiScore))
			result.AnalysisType = models.AnalysisHybrid
			if len(ai.errors) > len(result.Errors) {
				result.Errors = ai.errors
				result.ErrorCount = len(ai.errors)
			}
			result.Suggestions = mergeSuggestions(ai.suggestions, bandSuggestions(result.GrammarScore, fillers))
			result.OverallAssessment = ai.assessment
			if result.OverallAssessment == "" {
				result.OverallAssessment = bandAssessment(result.GrammarScore)
			}
			return result
		}
	}

	result.Suggestions = bandSuggestions(result.GrammarScore, fillers)
	result.OverallAssessment = bandAssessment(result.GrammarScore)
	return result
}

func (g *GrammarChecker) shouldEscalate(forced bool, words int, errorRate float64) bool {
	if g.generator == nil {
		return false
	}
	if forced || g.cfg.ForceAI {
		return true
	}
	if g.cfg.WordThreshold > 0 && words >= g.cfg.WordThreshold {
		return true
	}
	if g.cfg.ErrorRateThreshold > 0 && errorRate > g.cfg.ErrorRateThreshold {
		return true
	}
	return g.cfg.LongTextWords > 0 && words > g.cfg.LongTextWords
}

type aiGrammarAssessment struct {
	score       float64
	errors      []models.GrammarError
	suggestions []string
	assessment  string
}

func (g *GrammarChecker) assessWithAI(ctx context.Context, text string) (*aiGrammarAssessment, bool) {
	response, err := g.generator.GenerateText(ctx, g.promptBuilder.BuildGrammarPrompt(text), 0.1)
	if err != nil {
		log.Printf("⚠️  AI grammar assessment failed, using local result: %v\n", err)
		return nil, false
	}

	var parsed struct {
		GrammarScore *flexFloat `json:"grammar_score"`
		Errors       []struct {
			Message      string   `json:"message"`
			Context      string   `json:"context"`
			Replacements []string `json:"replacements"`
		} `json:"errors"`
		Suggestions       []string `json:"suggestions"`
		OverallAssessment string   `json:"overall_assessment"`
	}
	if err := DecodeJSON(response, &parsed); err != nil {
		log.Printf("⚠️  AI grammar assessment malformed, using local result: %v\n", err)
		return nil, false
	}
	if parsed.GrammarScore == nil {
		log.Println("⚠️  AI grammar assessment has no grammar_score, using local result")
		return nil, false
	}

	ai := &aiGrammarAssessment{
		score:       clampScore(float64(*parsed.GrammarScore)),
		suggestions: parsed.Suggestions,
		assessment:  strings.TrimSpace(parsed.OverallAssessment),
	}
	for _, e := range parsed.Errors {
		if strings.TrimSpace(e.Message) == "" {
			continue
		}
		ai.errors = append(ai.errors, models.GrammarError{
			Message:      e.Message,
			Context:      e.Context,
			Replacements: e.Replacements,
		})
	}

	return ai, true
}

// FilterGrammarMatches drops spelling, casual punctuation, style and
// speech-pattern hits, keeping only genuine grammar errors.
func FilterGrammarMatches(text string, matches []GrammarMatch) []models.GrammarError {
	// LanguageTool offsets count UTF-16 code units
	units := utf16.Encode([]rune(text))
	var kept []models.GrammarError

	for _, m := range matches {
		matched := matchedText(units, m.Offset, m.Length)
		if isSpellingMatch(m) || isCasualPunctuation(m) || isOverlyFormal(m) ||
			isSpeechPattern(m, matched) || isArtifact(matched) {
			continue
		}
		kept = append(kept, models.GrammarError{
			Message:      m.Message,
			RuleID:       m.RuleID,
			Category:     m.Category,
			Context:      matched,
			Replacements: m.Replacements,
		})
	}

	return kept
}

func matchedText(units []uint16, offset, length int) string {
	if offset < 0 || length <= 0 || offset >= len(units) {
		return ""
	}
	end := offset + length
	if end > len(units) {
		end = len(units)
	}
	return string(utf16.Decode(units[offset:end]))
}

func isSpellingMatch(m GrammarMatch) bool {
	category := strings.ToUpper(m.Category)
	if category == "TYPOS" || category == "SPELLING" {
		return true
	}

	rule := strings.ToUpper(m.RuleID)
	for _, marker := range []string{"MORFOLOGIK", "SPELL", "HUNSPELL", "TYPO"} {
		if strings.Contains(rule, marker) {
			return true
		}
	}

	message := strings.ToLower(m.Message)
	for _, marker := range []string{"spelling", "misspell", "possible typo"} {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

func isCasualPunctuation(m GrammarMatch) bool {
	rule := strings.ToUpper(m.RuleID)
	return casualPunctuationRules[rule] || strings.HasPrefix(rule, "MISSING_COMMA") ||
		casualPunctuationCategories[strings.ToUpper(m.Category)]
}

func isOverlyFormal(m GrammarMatch) bool {
	if formalRules[strings.ToUpper(m.RuleID)] || formalCategories[strings.ToUpper(m.Category)] {
		return true
	}
	message := strings.ToLower(m.Message)
	return strings.Contains(message, "passive voice") || strings.Contains(message, "wordy") ||
		strings.Contains(message, "sentence fragment")
}

func isSpeechPattern(m GrammarMatch, matched string) bool {
	rule := strings.ToUpper(m.RuleID)
	if speechRules[rule] || strings.HasPrefix(rule, "ENGLISH_WORD_REPEAT") {
		return true
	}
	message := strings.ToLower(m.Message)
	if strings.Contains(message, "filler") || strings.Contains(message, "repetition") {
		return true
	}

	// Immediate repetition such as "the the"
	fields := strings.Fields(strings.ToLower(matched))
	return len(fields) == 2 && fields[0] == fields[1]
}

func isArtifact(matched string) bool {
	trimmed := strings.TrimSpace(matched)
	if len([]rune(trimmed)) <= 2 {
		return true
	}
	if strings.ContainsAny(trimmed, "[]()*#") {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, w := range artifactWords {
		if strings.Contains(lower, w) {
			return true
		}
	}

	return !strings.ContainsFunc(trimmed, unicode.IsLetter)
}

func bandSuggestions(score float64, fillers int) []string {
	var suggestions []string
	switch {
	case score >= 90:
		suggestions = append(suggestions, "Excellent grammar. Keep speaking in complete, well-formed sentences.")
	case score >= 75:
		suggestions = append(suggestions, "Good grammar overall. Review verb tenses and subject-verb agreement in longer sentences.")
	case score >= 60:
		suggestions = append(suggestions,
			"Several grammar issues were found. Slow down and structure each answer into shorter sentences.",
			"Practise common patterns such as articles (a, an, the) and past tense forms.")
	default:
		suggestions = append(suggestions,
			"Grammar needs significant improvement. Prepare and rehearse answers to common questions aloud.",
			"Focus on one idea per sentence and check tense consistency.")
	}

	if fillers > 0 {
		suggestions = append(suggestions, fillerSuggestion(fillers))
	}
	return suggestions
}

func fillerSuggestion(fillers int) string {
	if fillers == 1 {
		return "1 filler word was detected. A short pause is better than a filler."
	}
	return fmt.Sprintf("%d filler words were detected. Replace them with short pauses to sound more confident.", fillers)
}

func bandAssessment(score float64) string {
	switch {
	case score >= 90:
		return "Excellent grammar with fluent, well-structured speech."
	case score >= 75:
		return "Good grammar with minor issues."
	case score >= 60:
		return "Fair grammar; noticeable errors affect clarity."
	default:
		return "Poor grammar; frequent errors make the answer hard to follow."
	}
}

func mergeSuggestions(primary, secondary []string) []string {
	const maxSuggestions = 5

	seen := make(map[string]bool)
	var merged []string
	for _, list := range [][]string{primary, secondary} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			merged = append(merged, s)
			if len(merged) == maxSuggestions {
				return merged
			}
		}
	}
	return merged
}

func clampScore(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}
