package classroom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hnthap/classgate/config"
	"github.com/hnthap/classgate/internal/model"
)

// ErrEmptyQuiz is returned when a quiz detail loads successfully but contains
// no questions. Callers must refuse to start such a quiz; this is distinct
// from a load failure.
var ErrEmptyQuiz = errors.New("quiz has no questions")

// APIError is a failed call to the classroom API: network error, non-2xx
// status or an undecodable body.
type APIError struct {
	Op     string
	Status int // 0 when the request never produced a response
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("classroom %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("classroom %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// CatalogAPI serves the quiz catalog.
type CatalogAPI interface {
	ListQuizzes(ctx context.Context, token string) ([]model.QuizSummary, error)
	QuizDetail(ctx context.Context, token string, quizID uint) (*model.Quiz, error)
}

// AttemptAPI grades a finished attempt.
type AttemptAPI interface {
	SubmitAttempt(ctx context.Context, token string, quizID uint, answers map[uint]any) (*model.SubmissionResult, error)
}

// DashboardAPI serves the passive dashboard views.
type DashboardAPI interface {
	Notes(ctx context.Context, token string) ([]model.Note, error)
	Assignments(ctx context.Context, token string) ([]model.Assignment, error)
	Grades(ctx context.Context, token string) ([]model.Grade, error)
	Feedback(ctx context.Context, token string) ([]model.FeedbackEntry, error)
}

// Client talks to the remote classroom API. The student's bearer token is
// forwarded verbatim on every call.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Classroom.TimeoutSeconds) * time.Second
	return &Client{
		baseURL: cfg.Classroom.BaseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &APIError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%s", bytes.TrimSpace(raw))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
