package model

import "time"

// Boundary models for the passive dashboard views. The portal fetches these
// from the classroom API and relays them; it owns no logic around them.

type Note struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Subject       string     `json:"subject"`
	FileName      string     `json:"fileName"`
	FileType      string     `json:"fileType"`
	ClassSemester string     `json:"classSemester"`
	UploadDate    *time.Time `json:"uploadDate,omitempty"`
}

type Assignment struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Subject      string     `json:"subject"`
	Instructions string     `json:"instructions"`
	TotalMarks   int        `json:"totalMarks"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
}

type Grade struct {
	ID              uint       `json:"id"`
	AssignmentTitle string     `json:"assignmentTitle"`
	Subject         string     `json:"subject"`
	Marks           float64    `json:"marks"`
	TotalMarks      int        `json:"totalMarks"`
	Feedback        string     `json:"feedback"`
	Status          string     `json:"status"`
	GradedAt        *time.Time `json:"gradedAt,omitempty"`
}

type FeedbackEntry struct {
	ID              uint       `json:"id"`
	AssignmentTitle string     `json:"assignmentTitle"`
	Subject         string     `json:"subject"`
	Feedback        string     `json:"feedback"`
	GradedAt        *time.Time `json:"gradedAt,omitempty"`
}
