package dto

// SelectQuizRequest picks a quiz from the catalog for the overview.
type SelectQuizRequest struct {
	QuizID uint `json:"quiz_id" binding:"required"`
}

// AnswerRequest records one answer. Value carries a string or a boolean
// depending on the question type; it is validated at the answer store
// boundary, not here (a required binding would reject a legitimate false).
type AnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	Value      any  `json:"value"`
}

// NavigateRequest moves the question cursor one step.
type NavigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=next prev"`
}

// JumpRequest moves the cursor straight to a question, palette-style.
type JumpRequest struct {
	Index int `json:"index" binding:"min=0"`
}
