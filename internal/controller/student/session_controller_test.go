package student_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hnthap/classgate/internal/classroom"
	"github.com/hnthap/classgate/internal/controller/student"
	"github.com/hnthap/classgate/internal/dto"
	"github.com/hnthap/classgate/internal/middleware"
	"github.com/hnthap/classgate/internal/model"
	"github.com/hnthap/classgate/internal/service"
	"github.com/hnthap/classgate/internal/session"
	"github.com/hnthap/classgate/internal/store"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

type stubClassroom struct {
	quiz   *model.Quiz
	detail error
	grade  error
}

func (s *stubClassroom) ListQuizzes(context.Context, string) ([]model.QuizSummary, error) {
	return []model.QuizSummary{{ID: s.quiz.ID, Title: s.quiz.Title, Subject: s.quiz.Subject, TimeLimit: s.quiz.TimeLimit}}, nil
}

func (s *stubClassroom) QuizDetail(context.Context, string, uint) (*model.Quiz, error) {
	if s.detail != nil {
		return nil, s.detail
	}
	return s.quiz, nil
}

func (s *stubClassroom) SubmitAttempt(context.Context, string, uint, map[uint]any) (*model.SubmissionResult, error) {
	if s.grade != nil {
		return nil, s.grade
	}
	return &model.SubmissionResult{Score: 1, TotalMarks: 2, Percentage: 50, Status: model.StatusPassed}, nil
}

// idleClock keeps the countdown goroutine quiet so responses stay deterministic.
type idleClock struct{}

func (idleClock) Now() time.Time { return time.Unix(1700000000, 0) }

func (idleClock) NewTicker(time.Duration) session.Ticker { return idleTicker{c: make(chan time.Time)} }

type idleTicker struct {
	c chan time.Time
}

func (t idleTicker) C() <-chan time.Time { return t.c }
func (t idleTicker) Stop()               {}

func portalQuiz() *model.Quiz {
	return &model.Quiz{
		ID:           7,
		Title:        "Operating Systems Basics",
		Subject:      "OS",
		TimeLimit:    30,
		TotalMarks:   2,
		PassingMarks: 1,
		MaxAttempts:  1,
		Questions: []model.Question{
			{ID: 1, Text: "Pick one", Type: model.MultipleChoice, Marks: 1, Options: []model.Option{{ID: 11, Text: "A"}, {ID: 12, Text: "B"}}},
			{ID: 2, Text: "True or false", Type: model.TrueFalse, Marks: 1},
		},
	}
}

func newPortal(t *testing.T, upstream *stubClassroom) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager(upstream, upstream, store.NewMemoryMirror(), idleClock{})
	ctrl := student.NewSessionController(service.NewCatalogService(upstream), sessions)

	r := gin.New()
	api := r.Group("/api/v1", middleware.Auth(testSecret))
	api.GET("/quizzes", ctrl.GetQuizzes)
	sess := api.Group("/session")
	sess.GET("", ctrl.GetSession)
	sess.POST("/select", ctrl.SelectQuiz)
	sess.POST("/back", ctrl.Back)
	sess.POST("/start", ctrl.Start)
	sess.POST("/answer", ctrl.Answer)
	sess.POST("/navigate", ctrl.Navigate)
	sess.POST("/jump", ctrl.Jump)
	sess.POST("/submit", ctrl.RequestSubmit)
	sess.POST("/submit/confirm", ctrl.ConfirmSubmit)
	sess.POST("/submit/cancel", ctrl.CancelSubmit)
	sess.POST("/retake", ctrl.Retake)
	sess.POST("/exit", ctrl.Exit)
	return r
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		StudentID: "stu-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, token, method, path string, body any) (*httptest.ResponseRecorder, dto.SessionStateDTO) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var state dto.SessionStateDTO
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	}
	return w, state
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	r := newPortal(t, &stubClassroom{quiz: portalQuiz()})
	token := bearerToken(t)

	w, state := doJSON(t, r, token, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "browsing", state.Phase)
	require.Nil(t, state.Quiz)

	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/select", dto.SelectQuizRequest{QuizID: 7})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "overview", state.Phase)
	require.NotNil(t, state.Quiz)
	require.Equal(t, 2, state.Quiz.QuestionCount)
	require.Nil(t, state.Question) // questions hidden until the attempt starts

	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "in_progress", state.Phase)
	require.Equal(t, 0, state.Cursor)
	require.Equal(t, 30*60, state.RemainingSeconds)
	require.NotNil(t, state.Question)
	require.Equal(t, uint(1), state.Question.ID)
	require.Len(t, state.Question.Options, 2)

	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/answer", dto.AnswerRequest{QuestionID: 1, Value: "A"})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, state.Answered[1])
	require.Equal(t, 1, state.AnsweredCount)

	// An explicit false answer must be accepted.
	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/answer", dto.AnswerRequest{QuestionID: 2, Value: false})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, state.Answered[2])
	require.Equal(t, 2, state.AnsweredCount)

	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/navigate", dto.NavigateRequest{Direction: "next"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, state.Cursor)
	require.Equal(t, uint(2), state.Question.ID)

	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "confirming_submit", state.Phase)

	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/submit/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "in_progress", state.Phase)
	require.Equal(t, 1, state.Cursor)
	require.Equal(t, 2, state.AnsweredCount)

	_, _ = doJSON(t, r, token, http.MethodPost, "/api/v1/session/submit", nil)
	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/submit/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "submitted", state.Phase)
	require.NotNil(t, state.Result)
	require.Equal(t, "PASSED", state.Result.Status)
	require.False(t, state.RetakeAllowed) // MaxAttempts is 1

	w, _ = doJSON(t, r, token, http.MethodPost, "/api/v1/session/retake", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w, state = doJSON(t, r, token, http.MethodPost, "/api/v1/session/exit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "browsing", state.Phase)
}

func TestSelectEmptyQuizReturns422(t *testing.T) {
	upstream := &stubClassroom{quiz: portalQuiz()}
	upstream.detail = fmt.Errorf("quiz 7: %w", classroom.ErrEmptyQuiz)
	r := newPortal(t, upstream)
	token := bearerToken(t)

	w, _ := doJSON(t, r, token, http.MethodPost, "/api/v1/session/select", dto.SelectQuizRequest{QuizID: 7})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// The session is still browsing afterwards.
	w, state := doJSON(t, r, token, http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "browsing", state.Phase)
}

func TestUpstreamFailureReturns502(t *testing.T) {
	upstream := &stubClassroom{quiz: portalQuiz()}
	upstream.detail = &classroom.APIError{Op: "quiz detail", Status: 503, Err: fmt.Errorf("unavailable")}
	r := newPortal(t, upstream)

	w, _ := doJSON(t, r, bearerToken(t), http.MethodPost, "/api/v1/session/select", dto.SelectQuizRequest{QuizID: 7})
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestInvalidAnswerReturns400(t *testing.T) {
	r := newPortal(t, &stubClassroom{quiz: portalQuiz()})
	token := bearerToken(t)

	_, _ = doJSON(t, r, token, http.MethodPost, "/api/v1/session/select", dto.SelectQuizRequest{QuizID: 7})
	_, _ = doJSON(t, r, token, http.MethodPost, "/api/v1/session/start", nil)

	w, _ := doJSON(t, r, token, http.MethodPost, "/api/v1/session/answer", dto.AnswerRequest{QuestionID: 1, Value: "Z"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, token, http.MethodPost, "/api/v1/session/answer", dto.AnswerRequest{QuestionID: 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperationsOutOfPhaseReturn409(t *testing.T) {
	r := newPortal(t, &stubClassroom{quiz: portalQuiz()})
	token := bearerToken(t)

	w, _ := doJSON(t, r, token, http.MethodPost, "/api/v1/session/start", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, token, http.MethodPost, "/api/v1/session/navigate", dto.NavigateRequest{Direction: "next"})
	require.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, token, http.MethodPost, "/api/v1/session/submit/confirm", nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestQuizzesRequireAuth(t *testing.T) {
	r := newPortal(t, &stubClassroom{quiz: portalQuiz()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quizzes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuizzesListsCatalog(t *testing.T) {
	r := newPortal(t, &stubClassroom{quiz: portalQuiz()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quizzes", nil)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var quizzes []dto.QuizSummaryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quizzes))
	require.Len(t, quizzes, 1)
	require.Equal(t, "Operating Systems Basics", quizzes[0].Title)
}
