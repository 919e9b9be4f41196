package student

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hnthap/classgate/internal/classroom"
	"github.com/hnthap/classgate/internal/dto"
	"github.com/hnthap/classgate/internal/middleware"
	"github.com/hnthap/classgate/internal/model"
	"github.com/hnthap/classgate/internal/service"
	"github.com/hnthap/classgate/internal/session"
	"github.com/rs/zerolog/log"
)

// SessionController exposes the quiz catalog and every quiz session operation
// for the authenticated student.
type SessionController struct {
	catalogService service.CatalogService
	sessions       *session.Manager
}

func NewSessionController(cs service.CatalogService, sessions *session.Manager) *SessionController {
	return &SessionController{catalogService: cs, sessions: sessions}
}

// GetQuizzes godoc
// @Summary List available quizzes
// @Description Quiz catalog visible to the student. A classroom API failure yields an empty list and a 502.
// @Tags Student - Quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 502 {object} dto.ErrorResponse "Classroom API unreachable"
// @Router /quizzes [get]
func (c *SessionController) GetQuizzes(ctx *gin.Context) {
	quizzes, err := c.catalogService.ListQuizzes(ctx.Request.Context(), middleware.Token(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// GetSession godoc
// @Summary Current quiz session state
// @Tags Student - Quiz Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Router /session [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// SelectQuiz godoc
// @Summary Select a quiz from the catalog
// @Description Loads the full quiz definition and moves the session to the overview. A quiz without questions is refused.
// @Tags Student - Quiz Session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SelectQuizRequest true "Quiz to select"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse "Session is not browsing"
// @Failure 422 {object} dto.ErrorResponse "Quiz has no questions"
// @Failure 502 {object} dto.ErrorResponse "Quiz detail load failed"
// @Router /session/select [post]
func (c *SessionController) SelectQuiz(ctx *gin.Context) {
	var req dto.SelectQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.SelectQuiz(ctx.Request.Context(), middleware.Token(ctx), req.QuizID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// Back godoc
// @Summary Return from the overview to the catalog
// @Tags Student - Quiz Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /session/back [post]
func (c *SessionController) Back(ctx *gin.Context) {
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.Back(); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// Start godoc
// @Summary Start the attempt
// @Description Moves the overview to in-progress: cursor 0, countdown at timeLimit*60 seconds, mirrored answers recovered.
// @Tags Student - Quiz Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /session/start [post]
func (c *SessionController) Start(ctx *gin.Context) {
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.Start(ctx.Request.Context(), middleware.Token(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// Answer godoc
// @Summary Record an answer for a question
// @Tags Student - Quiz Session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AnswerRequest true "Question and value"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 400 {object} dto.ErrorResponse "Value does not fit the question type"
// @Failure 409 {object} dto.ErrorResponse "Session is not in progress"
// @Router /session/answer [post]
func (c *SessionController) Answer(ctx *gin.Context) {
	var req dto.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if req.Value == nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Answer value is required"})
		return
	}
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.SetAnswer(ctx.Request.Context(), req.QuestionID, req.Value); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// Navigate godoc
// @Summary Move the question cursor
// @Description Direction next/prev; no-op at the first and last question.
// @Tags Student - Quiz Session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.NavigateRequest true "Direction"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /session/navigate [post]
func (c *SessionController) Navigate(ctx *gin.Context) {
	var req dto.NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.Navigate(req.Direction); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// Jump godoc
// @Summary Jump to a question by index
// @Tags Student - Quiz Session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JumpRequest true "Target index"
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /session/jump [post]
func (c *SessionController) Jump(ctx *gin.Context) {
	var req dto.JumpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.JumpTo(req.Index); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// RequestSubmit godoc
// @Summary Open the submit confirmation
// @Tags Student - Quiz Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /session/submit [post]
func (c *SessionController) RequestSubmit(ctx *gin.Context) {
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.RequestSubmit(); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// ConfirmSubmit godoc
// @Summary Submit the attempt for grading
// @Description On failure the session stays retryable; the grading endpoint is never called twice for one attempt.
// @Tags Student - Quiz Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Grading call failed, retry possible"
// @Router /session/submit/confirm [post]
func (c *SessionController) ConfirmSubmit(ctx *gin.Context) {
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if _, err := machine.ConfirmSubmit(ctx.Request.Context()); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// CancelSubmit godoc
// @Summary Cancel the submit confirmation
// @Tags Student - Quiz Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /session/submit/cancel [post]
func (c *SessionController) CancelSubmit(ctx *gin.Context) {
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.CancelSubmit(); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// Retake godoc
// @Summary Start a fresh attempt at the submitted quiz
// @Tags Student - Quiz Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Failure 409 {object} dto.ErrorResponse "No further attempt allowed"
// @Router /session/retake [post]
func (c *SessionController) Retake(ctx *gin.Context) {
	machine := c.sessions.ForStudent(middleware.StudentID(ctx))
	if err := machine.Retake(ctx.Request.Context()); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessionState(machine.View()))
}

// Exit godoc
// @Summary Abandon the session and return to the catalog
// @Description Mirrored answers of an in-progress attempt are kept for recovery; the session itself is discarded.
// @Tags Student - Quiz Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SessionStateDTO
// @Router /session/exit [post]
func (c *SessionController) Exit(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, sessionState(c.sessions.Release(middleware.StudentID(ctx))))
}

// sessionState renders a machine snapshot for the portal UI.
func sessionState(v session.View) dto.SessionStateDTO {
	state := dto.SessionStateDTO{
		Phase:            string(v.Phase),
		Cursor:           v.Cursor,
		RemainingSeconds: v.Remaining,
		AttemptID:        v.AttemptID,
	}
	if !v.StartedAt.IsZero() {
		started := v.StartedAt
		state.StartedAt = &started
	}
	if v.Result != nil {
		state.Result = &dto.SubmissionResultDTO{
			Score:      v.Result.Score,
			TotalMarks: v.Result.TotalMarks,
			Percentage: v.Result.Percentage,
			Status:     v.Result.Status,
		}
	}
	if v.Quiz == nil {
		return state
	}

	state.Quiz = &dto.QuizInfoDTO{
		ID:            v.Quiz.ID,
		Title:         v.Quiz.Title,
		Subject:       v.Quiz.Subject,
		Instructions:  v.Quiz.Instructions,
		TimeLimit:     v.Quiz.TimeLimit,
		TotalMarks:    v.Quiz.TotalMarks,
		PassingMarks:  v.Quiz.PassingMarks,
		MaxAttempts:   v.Quiz.MaxAttempts,
		QuestionCount: len(v.Quiz.Questions),
	}
	state.QuestionCount = len(v.Quiz.Questions)
	state.RetakeAllowed = v.Phase == session.PhaseSubmitted && v.Quiz.MaxAttempts > 1

	if v.Phase == session.PhaseInProgress || v.Phase == session.PhaseConfirmingSubmit {
		current := v.Quiz.Questions[v.Cursor]
		question := dto.QuestionDTO{
			ID:    current.ID,
			Text:  current.Text,
			Type:  string(current.Type),
			Marks: current.Marks,
		}
		for _, o := range current.Options {
			question.Options = append(question.Options, dto.OptionDTO{ID: o.ID, Text: o.Text})
		}
		state.Question = &question
	}

	if v.Answers != nil {
		answered := make(map[uint]bool, len(v.Answers))
		for id := range v.Answers {
			answered[id] = true
		}
		state.Answered = answered
		state.AnsweredCount = len(answered)
	}
	return state
}

// respondError maps domain errors onto the portal's HTTP surface.
func respondError(ctx *gin.Context, err error) {
	var apiErr *classroom.APIError

	switch {
	case errors.Is(err, classroom.ErrEmptyQuiz):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: "This quiz has no questions available. Please contact your teacher."})
	case errors.Is(err, model.ErrInvalidAnswer), errors.Is(err, session.ErrUnknownQuestion):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrRetakeNotAllowed),
		errors.Is(err, session.ErrSubmitInFlight),
		errors.Is(err, session.ErrStaleResponse):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.As(err, &apiErr):
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Classroom service unavailable", Details: []string{err.Error()}})
	default:
		log.Error().Err(err).Msg("unhandled portal error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal error", Details: []string{err.Error()}})
	}
}
