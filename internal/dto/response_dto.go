package dto

import "time"

// ErrorResponse is the uniform error body of the portal API.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// QuizSummaryDTO is one catalog entry.
type QuizSummaryDTO struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Subject     string     `json:"subject"`
	TotalMarks  float64    `json:"total_marks"`
	TimeLimit   int        `json:"time_limit"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type OptionDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionDTO struct {
	ID      uint        `json:"id"`
	Text    string      `json:"text"`
	Type    string      `json:"type"`
	Marks   float64     `json:"marks"`
	Options []OptionDTO `json:"options,omitempty"`
}

// QuizInfoDTO is the overview header of the selected quiz.
type QuizInfoDTO struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Subject       string  `json:"subject"`
	Instructions  string  `json:"instructions"`
	TimeLimit     int     `json:"time_limit"`
	TotalMarks    float64 `json:"total_marks"`
	PassingMarks  float64 `json:"passing_marks"`
	MaxAttempts   int     `json:"max_attempts"`
	QuestionCount int     `json:"question_count"`
}

type SubmissionResultDTO struct {
	Score      float64 `json:"score"`
	TotalMarks float64 `json:"total_marks"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

// SessionStateDTO renders the session for the portal UI: the phase, the
// current question, the countdown and which questions are already answered.
type SessionStateDTO struct {
	Phase            string               `json:"phase"`
	Quiz             *QuizInfoDTO         `json:"quiz,omitempty"`
	Cursor           int                  `json:"cursor"`
	QuestionCount    int                  `json:"question_count"`
	Question         *QuestionDTO         `json:"question,omitempty"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	StartedAt        *time.Time           `json:"started_at,omitempty"`
	AttemptID        string               `json:"attempt_id,omitempty"`
	Answered         map[uint]bool        `json:"answered,omitempty"`
	AnsweredCount    int                  `json:"answered_count"`
	RetakeAllowed    bool                 `json:"retake_allowed"`
	Result           *SubmissionResultDTO `json:"result,omitempty"`
}

// Dashboard DTOs (boundary views).

type NoteDTO struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Subject       string     `json:"subject"`
	FileName      string     `json:"file_name"`
	FileType      string     `json:"file_type,omitempty"`
	ClassSemester string     `json:"class_semester,omitempty"`
	UploadDate    *time.Time `json:"upload_date,omitempty"`
}

type AssignmentDTO struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Subject      string     `json:"subject"`
	Instructions string     `json:"instructions,omitempty"`
	TotalMarks   int        `json:"total_marks"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

type GradeDTO struct {
	ID              uint       `json:"id"`
	AssignmentTitle string     `json:"assignment_title"`
	Subject         string     `json:"subject"`
	Marks           float64    `json:"marks"`
	TotalMarks      int        `json:"total_marks"`
	Feedback        string     `json:"feedback,omitempty"`
	Status          string     `json:"status"`
	GradedAt        *time.Time `json:"graded_at,omitempty"`
}

type FeedbackDTO struct {
	ID              uint       `json:"id"`
	AssignmentTitle string     `json:"assignment_title"`
	Subject         string     `json:"subject"`
	Feedback        string     `json:"feedback"`
	GradedAt        *time.Time `json:"graded_at,omitempty"`
}
