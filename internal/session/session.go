package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/internal/stages/runner"
	"github.com/mini-maxit/grader/internal/submission"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/errors"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/messages"
	"github.com/mini-maxit/grader/pkg/questions"
	"github.com/mini-maxit/grader/pkg/solution"
	"go.uber.org/zap"
)

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateSubmitting
	StateSubmitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateInProgress:
		return "in progress"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Confirmer asks the test-taker to confirm an irreversible action.
type Confirmer interface {
	Confirm(message string) bool
}

type ConfirmerFunc func(message string) bool

func (f ConfirmerFunc) Confirm(message string) bool { return f(message) }

// AutoConfirm accepts every prompt.
var AutoConfirm Confirmer = ConfirmerFunc(func(string) bool { return true })

type Session interface {
	Start(ctx context.Context) error
	SelectOption(id questions.ID, option int) error
	SetCode(id questions.ID, lt languages.LanguageType, code string) error
	// Run previews a programming answer against its sample cases only.
	Run(ctx context.Context, id questions.ID) (solution.QuestionEvaluation, error)
	Submit(ctx context.Context) (*Report, error)
	Abort() error
	SignOut()
	State() State
	RemainingSeconds() int
	AttemptID() string
}

type Option func(*session)

// WithTickInterval changes how often one second is taken off the countdown.
func WithTickInterval(d time.Duration) Option {
	return func(s *session) { s.tickInterval = d }
}

// WithAutoSubmitHook registers a callback receiving the outcome of a
// submission triggered by the countdown.
func WithAutoSubmitHook(hook func(*Report, error)) Option {
	return func(s *session) { s.onAutoSubmit = hook }
}

type session struct {
	mu sync.Mutex

	test      *questions.Test
	studentID questions.ID
	attemptID string

	state     State
	ctx       context.Context
	startedAt time.Time
	remaining int
	// generation changes whenever the attempt is abandoned so results of
	// calls still in flight can be recognised as stale.
	generation uint64
	timer      *countdown

	options   map[questions.ID]int
	code      map[questions.ID]string
	languages map[questions.ID]languages.LanguageType

	runner       runner.Runner
	submitter    submission.Submitter
	confirmer    Confirmer
	tickInterval time.Duration
	onAutoSubmit func(*Report, error)
	logger       *zap.SugaredLogger
}

func NewSession(
	test *questions.Test,
	studentID questions.ID,
	runner runner.Runner,
	submitter submission.Submitter,
	confirmer Confirmer,
	opts ...Option,
) Session {
	if submitter == nil {
		submitter = submission.NewDryRunSubmitter()
	}
	s := &session{
		test:         test,
		studentID:    studentID,
		attemptID:    uuid.New().String(),
		state:        StateNotStarted,
		options:      map[questions.ID]int{},
		code:         map[questions.ID]string{},
		languages:    map[questions.ID]languages.LanguageType{},
		runner:       runner,
		submitter:    submitter,
		confirmer:    confirmer,
		tickInterval: constants.TimerTickInterval,
		logger:       logger.NewNamedLogger("session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNotStarted {
		return fmt.Errorf("%w: cannot start from %s", errors.ErrInvalidTransition, s.state)
	}
	if s.test.AlreadyTaken {
		return errors.ErrTestAlreadyTaken
	}

	s.ctx = ctx
	s.state = StateInProgress
	s.startedAt = time.Now()
	s.remaining = s.test.DurationMinutes * constants.MinutesToSeconds
	// Always ticks at least once, so a zero duration submits on the first tick.
	s.timer = startCountdown(s.tickInterval, s.tick)
	s.logger.Infof("Started attempt %s with %d seconds [TestID: %s]", s.attemptID, s.remaining, s.test.ID)
	return nil
}

// armTimer must be called with mu held.
func (s *session) armTimer() {
	if s.remaining <= 0 {
		return
	}
	s.timer = startCountdown(s.tickInterval, s.tick)
}

// disarmTimer must be called with mu held.
func (s *session) disarmTimer() {
	s.timer.stop()
	s.timer = nil
}

func (s *session) tick() {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return
	}
	s.remaining--
	if s.remaining > 0 {
		s.mu.Unlock()
		return
	}

	s.logger.Infof("Time is up, submitting automatically [TestID: %s]", s.test.ID)
	ctx := s.ctx
	report, err := s.submitLocked(ctx)
	hook := s.onAutoSubmit
	if hook != nil {
		hook(report, err)
	}
}

func (s *session) requireInProgress() error {
	if s.state != StateInProgress {
		return fmt.Errorf("%w: session is %s", errors.ErrInvalidTransition, s.state)
	}
	return nil
}

func (s *session) SelectOption(id questions.ID, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireInProgress(); err != nil {
		return err
	}
	q, err := s.test.Question(id)
	if err != nil {
		return err
	}
	mcq, ok := q.(*questions.MultipleChoice)
	if !ok {
		return errors.ErrWrongQuestionType
	}
	if option < 1 || option > len(mcq.Options) {
		return errors.ErrInvalidOption
	}
	s.options[id] = option
	return nil
}

func (s *session) SetCode(id questions.ID, lt languages.LanguageType, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireInProgress(); err != nil {
		return err
	}
	q, err := s.test.Question(id)
	if err != nil {
		return err
	}
	if _, ok := q.(*questions.Programming); !ok {
		return errors.ErrWrongQuestionType
	}
	s.code[id] = code
	s.languages[id] = lt
	return nil
}

func (s *session) programming(id questions.ID) (*questions.Programming, error) {
	q, err := s.test.Question(id)
	if err != nil {
		return nil, err
	}
	p, ok := q.(*questions.Programming)
	if !ok {
		return nil, errors.ErrWrongQuestionType
	}
	return p, nil
}

func (s *session) languageFor(id questions.ID) languages.LanguageType {
	if lt, ok := s.languages[id]; ok {
		return lt
	}
	return languages.DefaultLanguage()
}

func (s *session) Run(ctx context.Context, id questions.ID) (solution.QuestionEvaluation, error) {
	s.mu.Lock()
	if err := s.requireInProgress(); err != nil {
		s.mu.Unlock()
		return solution.QuestionEvaluation{}, err
	}
	q, err := s.programming(id)
	if err != nil {
		s.mu.Unlock()
		return solution.QuestionEvaluation{}, err
	}
	code := strings.TrimSpace(s.code[id])
	if len(code) < constants.MinRunnableCodeLength {
		s.mu.Unlock()
		return solution.QuestionEvaluation{}, errors.ErrCodeTooShort
	}
	lt := s.languageFor(id)
	generation := s.generation
	s.mu.Unlock()

	eval := s.runner.RunAll(ctx, code, q, lt, solution.ModeSamples)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation || s.state != StateInProgress {
		s.logger.Infof("Discarding preview that finished after the attempt ended [TestID: %s]", s.test.ID)
		return solution.QuestionEvaluation{}, errors.ErrStaleResult
	}
	return eval, nil
}

func (s *session) Submit(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	if err := s.requireInProgress(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if !s.confirmer.Confirm(constants.SessionMessageConfirmSubmit) {
		s.mu.Unlock()
		return nil, errors.ErrNotConfirmed
	}
	return s.submitLocked(ctx)
}

// submitLocked is entered with mu held and releases it.
func (s *session) submitLocked(ctx context.Context) (*Report, error) {
	s.state = StateSubmitting
	s.disarmTimer()
	generation := s.generation
	snapshot := s.snapshotAnswers()
	s.mu.Unlock()

	report, req, err := s.evaluate(ctx, snapshot)
	if err == nil {
		err = s.submitter.Submit(ctx, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		s.logger.Infof("Discarding submission that finished after sign out [TestID: %s]", s.test.ID)
		return nil, errors.ErrStaleResult
	}
	if err != nil {
		s.state = StateInProgress
		s.armTimer()
		s.logger.Errorf("Submission failed, attempt reopened with %d seconds: %s [TestID: %s]",
			s.remaining, err, s.test.ID)
		if !stderrors.Is(err, errors.ErrSubmissionFailed) {
			err = fmt.Errorf("%w: %w", errors.ErrSubmissionFailed, err)
		}
		return nil, err
	}

	s.state = StateSubmitted
	s.options = map[questions.ID]int{}
	s.code = map[questions.ID]string{}
	s.languages = map[questions.ID]languages.LanguageType{}
	s.logger.Infof("Submitted attempt %s, score %d/%d [TestID: %s]",
		s.attemptID, report.Score, report.TotalMarks, s.test.ID)
	return report, nil
}

type answerSnapshot struct {
	options   map[questions.ID]int
	code      map[questions.ID]string
	languages map[questions.ID]languages.LanguageType
}

func (s *session) snapshotAnswers() answerSnapshot {
	snap := answerSnapshot{
		options:   make(map[questions.ID]int, len(s.options)),
		code:      make(map[questions.ID]string, len(s.code)),
		languages: make(map[questions.ID]languages.LanguageType, len(s.languages)),
	}
	for k, v := range s.options {
		snap.options[k] = v
	}
	for k, v := range s.code {
		snap.code[k] = v
	}
	for k, v := range s.languages {
		snap.languages[k] = v
	}
	return snap
}

// evaluate grades every question in order and builds the submission payload.
func (s *session) evaluate(
	ctx context.Context,
	snap answerSnapshot,
) (*Report, messages.SubmissionRequest, error) {
	var (
		score   int
		answers []any
		results []QuestionResult
	)

	for i, q := range s.test.Questions {
		switch q := q.(type) {
		case *questions.MultipleChoice:
			option, answered := snap.options[q.ID]
			correct := answered && q.IsCorrect(option)
			marks := 0
			if correct {
				marks = q.Marks
			}
			score += marks

			answer := messages.MultipleChoiceAnswer{
				QuestionID: q.ID,
				Type:       constants.QuestionTypeMultipleChoice,
				Correct:    correct,
				Marks:      marks,
			}
			if answered {
				answer.Answer = &option
			}
			answers = append(answers, answer)
			results = append(results, QuestionResult{
				Number:      i + 1,
				QuestionID:  q.ID,
				Type:        constants.QuestionTypeMultipleChoice,
				Correct:     correct,
				EarnedMarks: marks,
				TotalMarks:  q.Marks,
			})

		case *questions.Programming:
			code := strings.TrimSpace(snap.code[q.ID])
			lt, ok := snap.languages[q.ID]
			if !ok {
				lt = languages.DefaultLanguage()
			}
			eval := s.runner.RunAll(ctx, code, q, lt, solution.ModeAll)
			score += eval.EarnedMarks

			answers = append(answers, messages.ProgrammingAnswer{
				QuestionID:         q.ID,
				Type:               constants.QuestionTypeProgramming,
				Code:               code,
				Language:           lt.String(),
				QuestionEvaluation: eval,
			})
			results = append(results, QuestionResult{
				Number:      i + 1,
				QuestionID:  q.ID,
				Title:       q.Title,
				Type:        constants.QuestionTypeProgramming,
				Correct:     eval.AllPassedCount == eval.TotalTestCount,
				EarnedMarks: eval.EarnedMarks,
				TotalMarks:  q.Marks,
				Evaluation:  &eval,
			})
		}
	}

	encoded, err := json.Marshal(answers)
	if err != nil {
		return nil, messages.SubmissionRequest{}, err
	}

	totalMarks := s.test.TotalMarks
	if totalMarks <= 0 {
		totalMarks = s.test.MaxMarks()
	}
	req := messages.SubmissionRequest{
		TestID:     s.test.ID,
		StudentID:  s.studentID,
		Score:      score,
		TotalMarks: totalMarks,
		Answers:    string(encoded),
	}
	return newReport(s.attemptID, s.test.ID, results, score, totalMarks), req, nil
}

func (s *session) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireInProgress(); err != nil {
		return err
	}
	if !s.confirmer.Confirm(constants.SessionMessageConfirmAbort) {
		return errors.ErrNotConfirmed
	}
	s.abandonLocked()
	s.logger.Infof("Attempt %s aborted [TestID: %s]", s.attemptID, s.test.ID)
	return nil
}

// SignOut ends the attempt from any state. Calls still in flight are
// discarded when they return.
func (s *session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarmTimer()
	if s.state == StateInProgress || s.state == StateSubmitting {
		s.abandonLocked()
		s.logger.Infof("Attempt %s abandoned by sign out [TestID: %s]", s.attemptID, s.test.ID)
	}
}

func (s *session) abandonLocked() {
	s.disarmTimer()
	s.state = StateAborted
	s.generation++
	s.options = map[questions.ID]int{}
	s.code = map[questions.ID]string{}
	s.languages = map[questions.ID]languages.LanguageType{}
}

func (s *session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) RemainingSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return max(s.remaining, 0)
}

func (s *session) AttemptID() string {
	return s.attemptID
}
