package models

type AnalysisType string

const (
	AnalysisEmpty     AnalysisType = "empty"
	AnalysisMinimal   AnalysisType = "minimal"
	AnalysisLocalOnly AnalysisType = "local_only"
	AnalysisHybrid    AnalysisType = "hybrid"
)

type GrammarError struct {
	Message      string   `json:"message"`
	RuleID       string   `json:"rule_id,omitempty"`
	Category     string   `json:"category,omitempty"`
	Context      string   `json:"context,omitempty"`
	Replacements []string `json:"replacements,omitempty"`
}

type GrammarResult struct {
	GrammarScore      float64        `json:"grammar_score"`
	ErrorCount        int            `json:"error_count"`
	FillerCount       int            `json:"filler_count"`
	FillerRate        float64        `json:"filler_rate"`
	WordCount         int            `json:"word_count"`
	Errors            []GrammarError `json:"errors,omitempty"`
	Suggestions       []string       `json:"suggestions"`
	OverallAssessment string         `json:"overall_assessment"`
	AnalysisType      AnalysisType   `json:"analysis_type"`
	CleanedText       string         `json:"cleaned_text,omitempty"`
}
