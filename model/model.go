package model

import "time"

type Survey struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Questions []string  `json:"questions"`
	CreatedAt time.Time `json:"created_at"`
}

// Response is a single anonymous answer to one question of a survey.
// ID doubles as an idempotency key: storing the same ID twice keeps one row.
type Response struct {
	ID            string    `json:"id,omitempty"`
	SurveyID      string    `json:"survey_id"`
	QuestionIndex int       `json:"question_index"`
	Answer        bool      `json:"answer"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuestionResult struct {
	Index           int     `json:"index"`
	Question        string  `json:"question"`
	Total           int     `json:"total"`
	Approvals       int     `json:"approvals"`
	ApprovalPercent float64 `json:"approval_percent"`
}

type SurveyLinks struct {
	SurveyURL  string `json:"survey_url"`
	ResultsURL string `json:"results_url"`
}
