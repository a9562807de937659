package models

import (
	"encoding/json"
	"time"
)

// Answer pairs a question id with the respondent's value for it.
type Answer struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

// Response is one respondent's submitted set of answers to a form.
// Responses are immutable once stored.
type Response struct {
	ID     string `json:"id"`
	FormID string `json:"form_id"`

	// JSON string field for DB storage
	AnswersJSON string `json:"-"`

	// Slice field for API interaction
	Answers []Answer `json:"answers"`

	CreatedAt time.Time `json:"created_at"`
}

// PrepareForSave marshals the answer list into its JSON string for DB storage.
func (r *Response) PrepareForSave() {
	answersBytes, _ := json.Marshal(r.Answers)
	r.AnswersJSON = string(answersBytes)
}

// PrepareForAPI unmarshals the stored JSON string into the answer slice for API responses.
func (r *Response) PrepareForAPI() {
	if r.AnswersJSON != "" {
		json.Unmarshal([]byte(r.AnswersJSON), &r.Answers)
	}
	if r.Answers == nil {
		r.Answers = []Answer{}
	}
}
