package classroom

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hnthap/classgate/internal/model"
	"github.com/rs/zerolog/log"
)

// ListQuizzes fetches the quizzes visible to the student. A failure yields an
// empty slice alongside the error so callers can render an empty catalog.
func (c *Client) ListQuizzes(ctx context.Context, token string) ([]model.QuizSummary, error) {
	var quizzes []model.QuizSummary
	if err := c.do(ctx, "list quizzes", http.MethodGet, "/api/student/quizzes", token, nil, &quizzes); err != nil {
		log.Error().Err(err).Msg("ListQuizzes: classroom API call failed")
		return nil, err
	}
	return quizzes, nil
}

// QuizDetail fetches the full quiz definition including questions and options.
// A detail payload with zero questions returns ErrEmptyQuiz: such a quiz must
// not be started.
func (c *Client) QuizDetail(ctx context.Context, token string, quizID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	path := fmt.Sprintf("/api/student/quizzes/%d/details", quizID)
	if err := c.do(ctx, "quiz detail", http.MethodGet, path, token, nil, &quiz); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("QuizDetail: classroom API call failed")
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		log.Warn().Uint("quizID", quizID).Msg("QuizDetail: quiz loaded without questions")
		return nil, fmt.Errorf("quiz %d: %w", quizID, ErrEmptyQuiz)
	}
	return &quiz, nil
}

// SubmitAttempt posts the answer payload for grading. Keys are question IDs;
// values are the wire representation per question type. The endpoint does not
// guarantee idempotency, so callers must not submit an attempt twice.
func (c *Client) SubmitAttempt(ctx context.Context, token string, quizID uint, answers map[uint]any) (*model.SubmissionResult, error) {
	if answers == nil {
		answers = map[uint]any{}
	}
	var result model.SubmissionResult
	path := fmt.Sprintf("/api/student/quizzes/%d/submit", quizID)
	if err := c.do(ctx, "submit attempt", http.MethodPost, path, token, answers, &result); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Int("answerCount", len(answers)).Msg("SubmitAttempt: classroom API call failed")
		return nil, err
	}
	return &result, nil
}
