package model

// Submission statuses returned by the grading endpoint.
const (
	StatusPassed = "PASSED"
	StatusFailed = "FAILED"
)

// SubmissionResult is the server-computed outcome of a graded attempt. Read-only.
type SubmissionResult struct {
	Score      float64 `json:"score"`
	TotalMarks float64 `json:"totalMarks"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

func (r SubmissionResult) Passed() bool {
	return r.Status == StatusPassed
}
