package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hnthap/classgate/internal/classroom"
	"github.com/hnthap/classgate/internal/model"
	"github.com/hnthap/classgate/internal/store"
	"github.com/rs/zerolog/log"
)

// Phase is the lifecycle phase of a student's quiz session.
type Phase string

const (
	PhaseBrowsing         Phase = "browsing"
	PhaseOverview         Phase = "overview"
	PhaseInProgress       Phase = "in_progress"
	PhaseConfirmingSubmit Phase = "confirming_submit"
	PhaseSubmitted        Phase = "submitted"
	// PhaseTimedOut is the degraded terminal: time expired and the
	// auto-submission could not be delivered. The attempt accepts no further
	// answers.
	PhaseTimedOut Phase = "timed_out"
)

// Trigger distinguishes the two submission paths. Both go through the same
// code path; only failure handling differs.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerAuto   Trigger = "auto_timeout"
)

// Navigation directions.
const (
	DirectionNext = "next"
	DirectionPrev = "prev"
)

// View is an immutable snapshot of the session for rendering.
type View struct {
	Phase     Phase
	Quiz      *model.Quiz
	Cursor    int
	Remaining int
	StartedAt time.Time
	AttemptID string
	Answers   map[uint]model.AnswerValue
	Result    *model.SubmissionResult
}

// Machine is one student's quiz session state machine. All state mutations
// happen under its mutex, preserving a single logical writer across portal
// requests and timer ticks. Network calls for submission run outside the
// lock; their results are applied only if the attempt is still current.
type Machine struct {
	mu        sync.Mutex
	studentID string
	token     string

	catalog classroom.CatalogAPI
	grader  classroom.AttemptAPI
	mirror  store.Mirror
	clock   Clock

	phase      Phase
	quiz       *model.Quiz
	answers    *store.AnswerStore
	cursor     int
	remaining  int // seconds
	startedAt  time.Time
	attemptID  string
	gen        uint64 // bumped whenever the attempt is created or destroyed
	expired    bool   // one-way; set when the countdown reaches zero
	submitting bool
	timer      *countdown
	result     *model.SubmissionResult
}

// NewMachine creates a session machine in the Browsing phase.
func NewMachine(studentID string, catalog classroom.CatalogAPI, grader classroom.AttemptAPI, mirror store.Mirror, clock Clock) *Machine {
	return &Machine{
		studentID: studentID,
		catalog:   catalog,
		grader:    grader,
		mirror:    mirror,
		clock:     clock,
		phase:     PhaseBrowsing,
	}
}

// SelectQuiz loads the full quiz definition and moves Browsing -> Overview.
// A load failure or an empty quiz leaves the machine in Browsing.
func (m *Machine) SelectQuiz(ctx context.Context, token string, quizID uint) error {
	m.mu.Lock()
	if m.phase != PhaseBrowsing {
		m.mu.Unlock()
		return fmt.Errorf("select quiz: %w", ErrInvalidTransition)
	}
	m.token = token
	gen := m.gen
	m.mu.Unlock()

	quiz, err := m.catalog.QuizDetail(ctx, token, quizID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || m.phase != PhaseBrowsing {
		log.Debug().Str("student", m.studentID).Uint("quizID", quizID).Msg("discarding quiz detail for superseded session")
		return ErrStaleResponse
	}
	if err != nil {
		return err
	}
	m.quiz = quiz
	m.phase = PhaseOverview
	log.Info().Str("student", m.studentID).Uint("quizID", quizID).Int("questions", len(quiz.Questions)).Msg("quiz selected")
	return nil
}

// Back returns from the overview to the catalog without starting an attempt.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseOverview {
		return fmt.Errorf("back: %w", ErrInvalidTransition)
	}
	m.quiz = nil
	m.phase = PhaseBrowsing
	return nil
}

// Start begins the attempt: Overview -> InProgress. The cursor resets to 0,
// the countdown initializes to timeLimit*60 seconds, and answers mirrored by
// an earlier interrupted attempt at the same quiz are recovered.
func (m *Machine) Start(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseOverview {
		return fmt.Errorf("start: %w", ErrInvalidTransition)
	}
	m.token = token
	m.beginAttemptLocked()

	recovered, err := m.answers.Rehydrate(ctx, func(questionID uint) bool {
		_, ok := m.quiz.QuestionByID(questionID)
		return ok
	})
	if err != nil {
		// Recovery is best-effort; the attempt starts empty.
		log.Warn().Err(err).Str("student", m.studentID).Uint("quizID", m.quiz.ID).Msg("answer mirror unavailable, starting empty")
	} else if recovered > 0 {
		log.Info().Str("student", m.studentID).Uint("quizID", m.quiz.ID).Int("recovered", recovered).Msg("recovered mirrored answers")
	}

	m.phase = PhaseInProgress
	m.timer = startCountdown(m.clock, func() bool { return m.Tick(context.Background()) })
	log.Info().Str("student", m.studentID).Uint("quizID", m.quiz.ID).Str("attemptID", m.attemptID).Int("seconds", m.remaining).Msg("attempt started")
	return nil
}

// beginAttemptLocked resets all per-attempt state. Callers hold the lock and
// guarantee m.quiz is set.
func (m *Machine) beginAttemptLocked() {
	m.gen++
	m.attemptID = uuid.NewString()
	m.answers = store.NewAnswerStore(m.mirrorKey(), m.mirror)
	m.cursor = 0
	m.remaining = m.quiz.TimeLimit * 60
	m.startedAt = m.clock.Now()
	m.expired = false
	m.submitting = false
	m.result = nil
}

func (m *Machine) mirrorKey() string {
	return fmt.Sprintf("student:%s:quiz:%d", m.studentID, m.quiz.ID)
}

// Navigate moves the cursor one question forward or back. No-ops at the
// boundaries, never errors there.
func (m *Machine) Navigate(direction string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseInProgress || m.expired {
		return fmt.Errorf("navigate: %w", ErrInvalidTransition)
	}
	switch direction {
	case DirectionNext:
		if m.cursor < len(m.quiz.Questions)-1 {
			m.cursor++
		}
	case DirectionPrev:
		if m.cursor > 0 {
			m.cursor--
		}
	}
	return nil
}

// JumpTo moves the cursor straight to a question, the way the question
// palette does. Out-of-range indexes clamp.
func (m *Machine) JumpTo(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseInProgress || m.expired {
		return fmt.Errorf("jump: %w", ErrInvalidTransition)
	}
	if index < 0 {
		index = 0
	}
	if max := len(m.quiz.Questions) - 1; index > max {
		index = max
	}
	m.cursor = index
	return nil
}

// SetAnswer records the student's answer for a question of the active quiz
// and mirrors the mapping durably.
func (m *Machine) SetAnswer(ctx context.Context, questionID uint, raw any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// The phase stays InProgress while an expired attempt's auto-submission
	// is still in flight; m.expired closes that window, otherwise an answer
	// accepted here would be missing from the already-frozen payload.
	if m.phase != PhaseInProgress || m.expired {
		return fmt.Errorf("answer: %w", ErrInvalidTransition)
	}
	question, ok := m.quiz.QuestionByID(questionID)
	if !ok {
		return fmt.Errorf("question %d: %w", questionID, ErrUnknownQuestion)
	}
	if err := m.answers.Set(ctx, question, raw); err != nil {
		return err
	}
	return nil
}

// RequestSubmit opens the confirmation gate. No network effect.
func (m *Machine) RequestSubmit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseInProgress || m.expired {
		return fmt.Errorf("request submit: %w", ErrInvalidTransition)
	}
	m.phase = PhaseConfirmingSubmit
	return nil
}

// CancelSubmit returns to the questions with answers and cursor intact. Once
// a submission is in flight the attempt's payload is already committed, so
// cancelling (and answering on top of it) is refused.
func (m *Machine) CancelSubmit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseConfirmingSubmit {
		return fmt.Errorf("cancel submit: %w", ErrInvalidTransition)
	}
	if m.submitting {
		return ErrSubmitInFlight
	}
	m.phase = PhaseInProgress
	return nil
}

// ConfirmSubmit submits the attempt for grading. On failure the machine
// stays in ConfirmingSubmit so the student can retry.
func (m *Machine) ConfirmSubmit(ctx context.Context) (*model.SubmissionResult, error) {
	m.mu.Lock()
	if m.phase != PhaseConfirmingSubmit {
		m.mu.Unlock()
		return nil, fmt.Errorf("confirm submit: %w", ErrInvalidTransition)
	}
	if m.submitting {
		m.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	req := m.beginSubmitLocked()
	m.mu.Unlock()

	result, err := m.grader.SubmitAttempt(ctx, req.token, req.quizID, req.payload)
	return m.finishSubmit(ctx, req, TriggerManual, result, err)
}

// Tick advances the countdown by one second. Reaching zero fires the
// auto-submission exactly once; later ticks are no-ops. The return value
// tells the countdown goroutine whether to keep ticking.
func (m *Machine) Tick(ctx context.Context) bool {
	m.mu.Lock()
	if m.phase != PhaseInProgress && m.phase != PhaseConfirmingSubmit {
		m.mu.Unlock()
		return false
	}
	if m.expired {
		m.mu.Unlock()
		return false
	}
	if m.remaining > 0 {
		m.remaining--
	}
	if m.remaining > 0 {
		m.mu.Unlock()
		return true
	}
	m.expired = true
	if m.submitting {
		// A manual submission is in flight; its completion decides the
		// terminal state, so the expiry must not submit a second time.
		m.mu.Unlock()
		return false
	}
	req := m.beginSubmitLocked()
	quizID := req.quizID
	m.mu.Unlock()

	log.Info().Str("student", m.studentID).Uint("quizID", quizID).Str("attemptID", req.attemptID).Msg("time expired, auto-submitting attempt")
	result, err := m.grader.SubmitAttempt(ctx, req.token, req.quizID, req.payload)
	if _, ferr := m.finishSubmit(ctx, req, TriggerAuto, result, err); ferr != nil && !errors.Is(ferr, ErrStaleResponse) {
		log.Error().Err(ferr).Uint("quizID", quizID).Msg("auto-submission failed")
	}
	return false
}

// Retake starts a fresh attempt at the same quiz: Submitted -> InProgress.
// Only quizzes allowing more than one attempt qualify.
func (m *Machine) Retake(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseSubmitted {
		return fmt.Errorf("retake: %w", ErrInvalidTransition)
	}
	if m.quiz.MaxAttempts <= 1 {
		return ErrRetakeNotAllowed
	}
	m.stopTimerLocked()
	m.beginAttemptLocked()
	if err := m.answers.Clear(ctx); err != nil {
		log.Warn().Err(err).Str("student", m.studentID).Msg("could not clear answer mirror on retake")
	}
	m.phase = PhaseInProgress
	m.timer = startCountdown(m.clock, func() bool { return m.Tick(context.Background()) })
	log.Info().Str("student", m.studentID).Uint("quizID", m.quiz.ID).Str("attemptID", m.attemptID).Msg("retake started")
	return nil
}

// Exit abandons the session and returns to Browsing. The answer mirror is
// kept so an interrupted attempt can be recovered on the next start.
func (m *Machine) Exit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimerLocked()
	m.gen++
	m.quiz = nil
	m.answers = nil
	m.result = nil
	m.cursor = 0
	m.remaining = 0
	m.expired = false
	m.submitting = false
	m.attemptID = ""
	m.phase = PhaseBrowsing
}

// View snapshots the session for rendering.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := View{
		Phase:     m.phase,
		Quiz:      m.quiz,
		Cursor:    m.cursor,
		Remaining: m.remaining,
		StartedAt: m.startedAt,
		AttemptID: m.attemptID,
		Result:    m.result,
	}
	if m.answers != nil {
		v.Answers = m.answers.Snapshot()
	}
	return v
}

type submitRequest struct {
	gen       uint64
	attemptID string
	quizID    uint
	token     string
	payload   map[uint]any
}

// beginSubmitLocked freezes the payload for one delivery and marks the
// submission in flight. Callers hold the lock.
func (m *Machine) beginSubmitLocked() submitRequest {
	m.submitting = true
	return submitRequest{
		gen:       m.gen,
		attemptID: m.attemptID,
		quizID:    m.quiz.ID,
		token:     m.token,
		payload:   m.answers.Wire(),
	}
}

// finishSubmit reconciles the grading response with the session. Responses
// for a superseded attempt are discarded. Manual and automatic triggers share
// the success path; they differ only on failure: a manual failure keeps the
// session retryable, an automatic one forces the TimedOut terminal because
// the session must not continue after expiry.
func (m *Machine) finishSubmit(ctx context.Context, req submitRequest, trigger Trigger, result *model.SubmissionResult, err error) (*model.SubmissionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != req.gen {
		log.Debug().Str("student", m.studentID).Str("attemptID", req.attemptID).Msg("discarding grading response for superseded attempt")
		return nil, ErrStaleResponse
	}
	m.submitting = false

	if err != nil {
		if trigger == TriggerAuto || m.expired {
			m.phase = PhaseTimedOut
			m.stopTimerLocked()
			if cerr := m.answers.Clear(ctx); cerr != nil {
				log.Warn().Err(cerr).Str("student", m.studentID).Msg("could not clear answer mirror after timeout")
			}
			return nil, fmt.Errorf("deliver expired attempt for quiz %d: %w", req.quizID, err)
		}
		log.Warn().Err(err).Str("student", m.studentID).Uint("quizID", req.quizID).Msg("submission failed, session kept for retry")
		return nil, fmt.Errorf("submit quiz %d: %w", req.quizID, err)
	}

	m.result = result
	m.phase = PhaseSubmitted
	m.stopTimerLocked()
	if cerr := m.answers.Clear(ctx); cerr != nil {
		log.Warn().Err(cerr).Str("student", m.studentID).Msg("could not clear answer mirror after submission")
	}
	log.Info().
		Str("student", m.studentID).
		Uint("quizID", req.quizID).
		Str("attemptID", req.attemptID).
		Str("trigger", string(trigger)).
		Float64("score", result.Score).
		Str("status", result.Status).
		Msg("attempt graded")
	return result, nil
}

func (m *Machine) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
