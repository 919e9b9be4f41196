package classroom

import (
	"context"
	"net/http"

	"github.com/hnthap/classgate/internal/model"
	"github.com/rs/zerolog/log"
)

// Passive dashboard fetches. These are plain relays; the portal renders
// whatever the classroom API returns.

func (c *Client) Notes(ctx context.Context, token string) ([]model.Note, error) {
	var notes []model.Note
	if err := c.do(ctx, "notes", http.MethodGet, "/api/student/notes", token, nil, &notes); err != nil {
		log.Error().Err(err).Msg("Notes: classroom API call failed")
		return nil, err
	}
	return notes, nil
}

func (c *Client) Assignments(ctx context.Context, token string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	if err := c.do(ctx, "assignments", http.MethodGet, "/api/student/assignments", token, nil, &assignments); err != nil {
		log.Error().Err(err).Msg("Assignments: classroom API call failed")
		return nil, err
	}
	return assignments, nil
}

func (c *Client) Grades(ctx context.Context, token string) ([]model.Grade, error) {
	var grades []model.Grade
	if err := c.do(ctx, "grades", http.MethodGet, "/api/student/grades", token, nil, &grades); err != nil {
		log.Error().Err(err).Msg("Grades: classroom API call failed")
		return nil, err
	}
	return grades, nil
}

func (c *Client) Feedback(ctx context.Context, token string) ([]model.FeedbackEntry, error) {
	var feedback []model.FeedbackEntry
	if err := c.do(ctx, "feedback", http.MethodGet, "/api/student/feedback", token, nil, &feedback); err != nil {
		log.Error().Err(err).Msg("Feedback: classroom API call failed")
		return nil, err
	}
	return feedback, nil
}
