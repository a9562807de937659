package models

import (
	"encoding/json"
	"time"
)

// Question types accepted at form creation.
const (
	QuestionShortText      = "short-text"
	QuestionLongText       = "long-text"
	QuestionMultipleChoice = "multiple-choice"
	QuestionCheckbox       = "checkbox"
)

// Question is a single entry in a form. Questions have no lifecycle of their
// own: they are created, edited and removed through their parent form, and
// their position in the form's slice is significant.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"` // choice/checkbox types only
}

// Form is a named, ordered collection of questions owned by a user.
type Form struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// JSON string field for DB storage
	QuestionsJSON string `json:"-"`

	// Slice field for API interaction
	Questions []Question `json:"questions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrepareForSave marshals the question list into its JSON string for DB storage.
func (f *Form) PrepareForSave() {
	questionsBytes, _ := json.Marshal(f.Questions)
	f.QuestionsJSON = string(questionsBytes)
}

// PrepareForAPI unmarshals the stored JSON string into the question slice for API responses.
func (f *Form) PrepareForAPI() {
	if f.QuestionsJSON != "" {
		json.Unmarshal([]byte(f.QuestionsJSON), &f.Questions)
	}
	if f.Questions == nil {
		f.Questions = []Question{}
	}
}

// ValidQuestionType reports whether t is one of the accepted question types.
func ValidQuestionType(t string) bool {
	switch t {
	case QuestionShortText, QuestionLongText, QuestionMultipleChoice, QuestionCheckbox:
		return true
	}
	return false
}
