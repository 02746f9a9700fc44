package models

type UploadResponse struct {
	Filename     string       `json:"filename"`
	OriginalName string       `json:"original_name"`
	QuestionType QuestionType `json:"question_type"`
	Records      int          `json:"records"`
}

type EvaluateRequest struct {
	CandidateName string       `json:"candidate_name"`
	Answers       []AnswerPair `json:"answers"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type EvaluateAnswerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type GrammarRequest struct {
	Text    string `json:"text"`
	ForceAI bool   `json:"force_ai"`
}

type ResultResponse struct {
	ID            string        `json:"id"`
	Status        string        `json:"status"`
	CandidateName string        `json:"candidate_name,omitempty"`
	Results       []SessionItem `json:"results,omitempty"`
	ErrorMessage  *string       `json:"error_message,omitempty"`
}
