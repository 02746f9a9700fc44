package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-evaluator/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildRubricScoringPrompt asks for one scoring run of an answer against a rubric.
func (pb *PromptBuilder) BuildRubricScoringPrompt(question, answer string, rubric models.Rubric) string {
	return fmt.Sprintf(`You are an experienced interviewer scoring a candidate's spoken answer.

SCORING RUBRIC:
%s

INTERVIEW QUESTION:
%s

CANDIDATE ANSWER:
%s

Score the answer on every rubric criterion from 0 to 100 and justify each score in one or two sentences.
Use the criterion names exactly as written in the rubric.

Return ONLY a JSON object in the following format:
{
  "scores": [
    {"name": "<criterion name>", "score": <0-100>, "explanation": "<why>"}
  ],
  "overall_score": <mean of the scores>
}`, formatRubric(rubric), question, answer)
}

// BuildExplanationSummaryPrompt condenses the per-run rationales of every criterion
// in a single request.
func (pb *PromptBuilder) BuildExplanationSummaryPrompt(criteria []string, explanations map[string][]string) string {
	var parts []string
	for _, name := range criteria {
		parts = append(parts, fmt.Sprintf("%s:", name))
		for i, e := range explanations[name] {
			parts = append(parts, fmt.Sprintf("  %d. %s", i+1, strings.TrimSpace(e)))
		}
	}

	return fmt.Sprintf(`Several reviewers explained the scores they gave an interview answer.

EXPLANATIONS TO SUMMARIZE:
%s

For each criterion, summarize its explanations into a single sentence.
Return ONLY a JSON object mapping each criterion name to its sentence, for example {"Clarity": "<sentence>"}.`, strings.Join(parts, "\n"))
}

// BuildExactMatchPrompt asks whether the new question is one of the stored ones.
func (pb *PromptBuilder) BuildExactMatchPrompt(question string, candidates []string) string {
	return fmt.Sprintf(`EXACT MATCH CHECK

NEW QUESTION:
%s

STORED QUESTIONS:
%s

Does the new question ask exactly the same thing as one of the stored questions (same meaning, wording may differ slightly)?
If yes, answer: YES: "<the stored question copied verbatim>"
If no, answer: NO`, question, formatNumbered(candidates))
}

// BuildRelevancePrompt asks which stored questions are genuinely related.
func (pb *PromptBuilder) BuildRelevancePrompt(question string, candidates []string) string {
	return fmt.Sprintf(`RELEVANCE CHECK

NEW QUESTION:
%s

STORED QUESTIONS:
%s

Which stored questions are truly relevant to the new question, meaning a good answer to them would overlap substantially with a good answer to the new question?
Return ONLY a JSON array of the relevant stored questions copied verbatim, for example ["question one"]. Return [] if none are relevant.`, question, formatNumbered(candidates))
}

// BuildAnswerRewritePrompt turns coaching guidance into an answer a candidate could give.
func (pb *PromptBuilder) BuildAnswerRewritePrompt(question, guidance string) string {
	return fmt.Sprintf(`The text below is advice on how to answer an interview question, not an answer itself.

INTERVIEW QUESTION:
%s

ANSWER GUIDANCE:
%s

Write a concrete first-person answer a strong candidate would give, following the guidance. Keep it under 150 words. Return ONLY the answer text.`, question, guidance)
}

// BuildGrammarPrompt asks for a grammar-only review of transcribed speech.
func (pb *PromptBuilder) BuildGrammarPrompt(text string) string {
	return fmt.Sprintf(`GRAMMAR REVIEW

You are reviewing a transcript of spoken English from a job interview.
Judge grammar only: tense, agreement, articles, prepositions and sentence structure.
Ignore spelling, punctuation, capitalisation, filler words and informal but correct speech.

TRANSCRIPT:
%s

Return ONLY a JSON object in the following format:
{
  "grammar_score": <0-100>,
  "errors": [{"message": "<what is wrong>", "context": "<the phrase>", "replacements": ["<fix>"]}],
  "suggestions": ["<short actionable tip>"],
  "overall_assessment": "<one sentence>"
}`, text)
}

func formatRubric(rubric models.Rubric) string {
	var parts []string
	for i, c := range rubric {
		if c.Description == "" {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, c.Name))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d. %s: %s", i+1, c.Name, c.Description))
	}
	return strings.Join(parts, "\n")
}

func formatNumbered(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}

	var parts []string
	for i, item := range items {
		parts = append(parts, fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(item)))
	}
	return strings.Join(parts, "\n")
}
