package model

import "time"

// QuestionType values match the classroom API's questionType field.
type QuestionType string

const (
	MultipleChoice QuestionType = "MCQ"
	TrueFalse      QuestionType = "TRUE_FALSE"
	ShortAnswer    QuestionType = "SHORT_ANSWER"
)

type Option struct {
	ID   uint   `json:"id"`
	Text string `json:"optionText"`
}

type Question struct {
	ID      uint         `json:"id"`
	Text    string       `json:"questionText"`
	Type    QuestionType `json:"questionType"`
	Marks   float64      `json:"marks"`
	Options []Option     `json:"options,omitempty"` // only for MCQ
}

// HasOption reports whether text matches one of the question's options.
func (q Question) HasOption(text string) bool {
	for _, o := range q.Options {
		if o.Text == text {
			return true
		}
	}
	return false
}

// Quiz is the full quiz definition as served by the classroom API.
// Immutable once loaded into a session.
type Quiz struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Subject      string     `json:"subject"`
	Instructions string     `json:"instructions"`
	TimeLimit    int        `json:"timeLimit"` // minutes
	TotalMarks   float64    `json:"totalMarks"`
	PassingMarks float64    `json:"passingMarks"`
	MaxAttempts  int        `json:"maxAttempts"`
	Questions    []Question `json:"questions"`
}

// QuestionByID returns the question with the given ID, if it is part of the quiz.
func (q *Quiz) QuestionByID(id uint) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// QuizSummary is one entry of the quiz catalog listing.
type QuizSummary struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	TotalMarks  float64    `json:"totalMarks"`
	TimeLimit   int        `json:"timeLimit"` // minutes
	EndDate     *time.Time `json:"endDate,omitempty"`
}
