package model

import (
	"errors"
	"fmt"
)

// ShortAnswerMaxLen is the character limit the classroom UI enforces on free-text answers.
const ShortAnswerMaxLen = 500

// ErrInvalidAnswer marks answer values rejected at the store boundary
// (wrong value type for the question, unknown option, over-long text).
var ErrInvalidAnswer = errors.New("invalid answer")

// AnswerValue is the tagged union of the three answer shapes. Only the field
// matching Type is meaningful. Values are constructed through NewAnswerValue,
// so every stored answer has already been validated against its question.
type AnswerValue struct {
	Type   QuestionType `json:"type"`
	Choice string       `json:"choice,omitempty"` // MCQ: selected option's text
	Bool   bool         `json:"bool"`             // TRUE_FALSE
	Text   string       `json:"text,omitempty"`   // SHORT_ANSWER
}

// NewAnswerValue validates raw (as decoded from JSON: string or bool) against
// the question's declared type and returns the typed answer.
func NewAnswerValue(q Question, raw any) (AnswerValue, error) {
	switch q.Type {
	case MultipleChoice:
		text, ok := raw.(string)
		if !ok {
			return AnswerValue{}, fmt.Errorf("%w: question %d expects an option text, got %T", ErrInvalidAnswer, q.ID, raw)
		}
		if !q.HasOption(text) {
			return AnswerValue{}, fmt.Errorf("%w: %q is not an option of question %d", ErrInvalidAnswer, text, q.ID)
		}
		return AnswerValue{Type: MultipleChoice, Choice: text}, nil

	case TrueFalse:
		b, ok := raw.(bool)
		if !ok {
			return AnswerValue{}, fmt.Errorf("%w: question %d expects a boolean, got %T", ErrInvalidAnswer, q.ID, raw)
		}
		return AnswerValue{Type: TrueFalse, Bool: b}, nil

	case ShortAnswer:
		text, ok := raw.(string)
		if !ok {
			return AnswerValue{}, fmt.Errorf("%w: question %d expects text, got %T", ErrInvalidAnswer, q.ID, raw)
		}
		if len([]rune(text)) > ShortAnswerMaxLen {
			return AnswerValue{}, fmt.Errorf("%w: answer for question %d exceeds %d characters", ErrInvalidAnswer, q.ID, ShortAnswerMaxLen)
		}
		return AnswerValue{Type: ShortAnswer, Text: text}, nil

	default:
		return AnswerValue{}, fmt.Errorf("%w: question %d has unsupported type %q", ErrInvalidAnswer, q.ID, q.Type)
	}
}

// Wire returns the untagged value the grading endpoint expects in the
// submission payload: option text for MCQ, a boolean for TRUE_FALSE and the
// free text for SHORT_ANSWER.
func (a AnswerValue) Wire() any {
	switch a.Type {
	case MultipleChoice:
		return a.Choice
	case TrueFalse:
		return a.Bool
	default:
		return a.Text
	}
}
