package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/mini-maxit/grader/internal/session"
	"github.com/mini-maxit/grader/pkg/constants"
	pkgerrors "github.com/mini-maxit/grader/pkg/errors"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/messages"
	"github.com/mini-maxit/grader/pkg/questions"
	"github.com/mini-maxit/grader/pkg/solution"
	mocks "github.com/mini-maxit/grader/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const validCode = "def solution(n):\n    return n * n"

func newTest(durationMinutes int) *questions.Test {
	return &questions.Test{
		ID:              "t1",
		Title:           "Midterm",
		DurationMinutes: durationMinutes,
		TotalMarks:      12,
		Questions: []questions.Question{
			&questions.MultipleChoice{
				ID:            "1",
				Type:          constants.QuestionTypeMultipleChoice,
				Prompt:        "2 + 2?",
				Options:       []string{"3", "4", "5"},
				CorrectAnswer: 2,
				Marks:         2,
			},
			&questions.Programming{
				ID:    "2",
				Type:  constants.QuestionTypeProgramming,
				Title: "Square",
				Marks: 10,
				TestCases: []questions.TestCase{
					{Input: "2", ExpectedOutput: "4"},
					{Input: "3", ExpectedOutput: "9"},
					{Input: "4", ExpectedOutput: "16"},
					{Input: "5", ExpectedOutput: "25"},
					{Input: "6", ExpectedOutput: "36"},
				},
			},
		},
	}
}

func evaluation(passed, total, marks int) solution.QuestionEvaluation {
	return solution.QuestionEvaluation{
		SamplePassedCount: min(passed, 2),
		SampleCount:       2,
		AllPassedCount:    passed,
		TotalTestCount:    total,
		EarnedMarks:       marks,
		TotalMarks:        10,
		PassPercentage:    solution.Percentage(passed, total),
	}
}

type fixture struct {
	runner    *mocks.MockRunner
	submitter *mocks.MockSubmitter
	confirmer *mocks.MockConfirmer
}

func newFixture(t *testing.T) (*gomock.Controller, fixture) {
	ctrl := gomock.NewController(t)
	return ctrl, fixture{
		runner:    mocks.NewMockRunner(ctrl),
		submitter: mocks.NewMockSubmitter(ctrl),
		confirmer: mocks.NewMockConfirmer(ctrl),
	}
}

func (f fixture) session(test *questions.Test, opts ...Option) Session {
	return NewSession(test, "42", f.runner, f.submitter, f.confirmer, opts...)
}

func TestSession_SubmitFlow(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	require.Equal(t, StateNotStarted, s.State())
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateInProgress, s.State())
	assert.Equal(t, 30*60, s.RemainingSeconds())
	assert.NotEmpty(t, s.AttemptID())

	require.NoError(t, s.SelectOption("1", 2))
	require.NoError(t, s.SetCode("2", languages.Python, "  "+validCode+"\n"))

	f.confirmer.EXPECT().Confirm(constants.SessionMessageConfirmSubmit).Return(true)
	f.runner.EXPECT().
		RunAll(gomock.Any(), validCode, gomock.Any(), languages.Python, solution.ModeAll).
		Return(evaluation(3, 5, 5))

	var sent messages.SubmissionRequest
	f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req messages.SubmissionRequest) error {
			sent = req
			return nil
		})

	report, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, s.State())

	assert.Equal(t, 7, report.Score)
	assert.Equal(t, 12, report.TotalMarks)
	assert.Equal(t, "58.3", report.Percentage)
	assert.Equal(t, constants.GradeNeedToImprove, report.Grade)
	assert.Equal(t, []string{
		"Q1 (MCQ): ✓ Correct - 2/2 marks",
		"Q2 (Square): 3/5 tests passed (60.0%) - 5/10 marks",
	}, report.SummaryLines())

	assert.Equal(t, questions.ID("t1"), sent.TestID)
	assert.Equal(t, questions.ID("42"), sent.StudentID)
	assert.Equal(t, 7, sent.Score)
	assert.Equal(t, 12, sent.TotalMarks)

	var answers []map[string]any
	require.NoError(t, json.Unmarshal([]byte(sent.Answers), &answers))
	require.Len(t, answers, 2)
	assert.Equal(t, "MCQ", answers[0]["type"])
	assert.Equal(t, float64(2), answers[0]["answer"])
	assert.Equal(t, true, answers[0]["correct"])
	assert.Equal(t, "Programming", answers[1]["type"])
	assert.Equal(t, validCode, answers[1]["code"])
	assert.Equal(t, "python", answers[1]["language"])
	assert.Equal(t, float64(3), answers[1]["allTestsPassed"])
	assert.Equal(t, float64(2), answers[1]["totalSampleTests"])
	assert.Equal(t, "60.0", answers[1]["passPercentage"])

	// Terminal state.
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidTransition)
}

func TestSession_UnansweredQuestions(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	require.NoError(t, s.Start(context.Background()))

	f.confirmer.EXPECT().Confirm(gomock.Any()).Return(true)
	f.runner.EXPECT().
		RunAll(gomock.Any(), "", gomock.Any(), languages.Python, solution.ModeAll).
		Return(evaluation(0, 5, 0))

	var sent messages.SubmissionRequest
	f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req messages.SubmissionRequest) error {
			sent = req
			return nil
		})

	report, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Score)
	assert.Equal(t, "Q1 (MCQ): ✗ Wrong - 0/2 marks", report.SummaryLines()[0])

	var answers []map[string]any
	require.NoError(t, json.Unmarshal([]byte(sent.Answers), &answers))
	assert.Nil(t, answers[0]["answer"])
}

func TestSession_SubmitNotConfirmed(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	require.NoError(t, s.Start(context.Background()))

	defer s.SignOut()

	f.confirmer.EXPECT().Confirm(constants.SessionMessageConfirmSubmit).Return(false)
	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, pkgerrors.ErrNotConfirmed)
	assert.Equal(t, StateInProgress, s.State())
}

func TestSession_SubmissionFailureReopens(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.SetCode("2", languages.JavaScript, "function solution(n) { return n * n; }"))

	f.confirmer.EXPECT().Confirm(gomock.Any()).Return(true).Times(2)
	// Evaluation is redone on every attempt.
	f.runner.EXPECT().RunAll(gomock.Any(), gomock.Any(), gomock.Any(), languages.JavaScript, solution.ModeAll).
		Return(evaluation(5, 5, 10)).Times(2)
	gomock.InOrder(
		f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(errors.New("backend down")),
		f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err := s.Submit(context.Background())
	require.ErrorIs(t, err, pkgerrors.ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "backend down")
	assert.Equal(t, StateInProgress, s.State())

	report, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, report.Score)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSession_StartRules(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	taken := newTest(30)
	taken.AlreadyTaken = true
	assert.ErrorIs(t, f.session(taken).Start(context.Background()), pkgerrors.ErrTestAlreadyTaken)

	s := f.session(newTest(30))
	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), pkgerrors.ErrInvalidTransition)
	s.SignOut()
}

func TestSession_AnswerValidation(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	assert.ErrorIs(t, s.SelectOption("1", 1), pkgerrors.ErrInvalidTransition)

	require.NoError(t, s.Start(context.Background()))
	defer s.SignOut()

	assert.ErrorIs(t, s.SelectOption("1", 0), pkgerrors.ErrInvalidOption)
	assert.ErrorIs(t, s.SelectOption("1", 4), pkgerrors.ErrInvalidOption)
	assert.ErrorIs(t, s.SelectOption("2", 1), pkgerrors.ErrWrongQuestionType)
	assert.ErrorIs(t, s.SelectOption("9", 1), pkgerrors.ErrQuestionNotFound)
	assert.ErrorIs(t, s.SetCode("1", languages.Python, validCode), pkgerrors.ErrWrongQuestionType)
}

func TestSession_RunPreview(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	require.NoError(t, s.Start(context.Background()))
	defer s.SignOut()

	require.NoError(t, s.SetCode("2", languages.Python, "print()"))
	_, err := s.Run(context.Background(), "2")
	assert.ErrorIs(t, err, pkgerrors.ErrCodeTooShort)

	_, err = s.Run(context.Background(), "1")
	assert.ErrorIs(t, err, pkgerrors.ErrWrongQuestionType)

	require.NoError(t, s.SetCode("2", languages.Python, validCode))
	preview := evaluation(2, 2, 0)
	f.runner.EXPECT().RunAll(gomock.Any(), validCode, gomock.Any(), languages.Python, solution.ModeSamples).
		Return(preview).Times(2)

	for i := 0; i < 2; i++ {
		got, err := s.Run(context.Background(), "2")
		require.NoError(t, err)
		assert.Equal(t, preview, got)
	}
	assert.Equal(t, StateInProgress, s.State())
}

func TestSession_RunDiscardedAfterSignOut(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.SetCode("2", languages.Python, validCode))

	f.runner.EXPECT().RunAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, *questions.Programming, languages.LanguageType, solution.Mode) solution.QuestionEvaluation {
			s.SignOut()
			return evaluation(2, 2, 0)
		})

	_, err := s.Run(context.Background(), "2")
	assert.ErrorIs(t, err, pkgerrors.ErrStaleResult)
	assert.Equal(t, StateAborted, s.State())
}

func TestSession_SubmissionDiscardedAfterSignOut(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	require.NoError(t, s.Start(context.Background()))

	f.confirmer.EXPECT().Confirm(gomock.Any()).Return(true)
	f.runner.EXPECT().RunAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(evaluation(0, 5, 0))
	f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, messages.SubmissionRequest) error {
			s.SignOut()
			return nil
		})

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, pkgerrors.ErrStaleResult)
	assert.Equal(t, StateAborted, s.State())
}

func TestSession_Abort(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	s := f.session(newTest(30))
	assert.ErrorIs(t, s.Abort(), pkgerrors.ErrInvalidTransition)
	require.NoError(t, s.Start(context.Background()))

	gomock.InOrder(
		f.confirmer.EXPECT().Confirm(constants.SessionMessageConfirmAbort).Return(false),
		f.confirmer.EXPECT().Confirm(constants.SessionMessageConfirmAbort).Return(true),
	)
	assert.ErrorIs(t, s.Abort(), pkgerrors.ErrNotConfirmed)
	assert.Equal(t, StateInProgress, s.State())

	require.NoError(t, s.Abort())
	assert.Equal(t, StateAborted, s.State())
	assert.ErrorIs(t, s.Abort(), pkgerrors.ErrInvalidTransition)

	// Signing out afterwards is harmless.
	s.SignOut()
	s.SignOut()
	assert.Equal(t, StateAborted, s.State())
}

func TestSession_CountdownAutoSubmits(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	done := make(chan struct{})
	var (
		mu        sync.Mutex
		gotReport *Report
		gotErr    error
	)
	hook := func(r *Report, err error) {
		mu.Lock()
		gotReport, gotErr = r, err
		mu.Unlock()
		close(done)
	}

	// No confirmation is asked for.
	f.confirmer.EXPECT().Confirm(gomock.Any()).Times(0)
	f.runner.EXPECT().RunAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(evaluation(5, 5, 10))
	f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil)

	s := f.session(newTest(1), WithTickInterval(time.Millisecond), WithAutoSubmitHook(hook))
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("countdown did not submit")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NoError(t, gotErr)
	assert.Equal(t, 10, gotReport.Score)
	assert.Equal(t, StateSubmitted, s.State())
	assert.Equal(t, 0, s.RemainingSeconds())
}

func TestSession_TimerStopsAfterAbort(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	f.confirmer.EXPECT().Confirm(gomock.Any()).Return(true)
	s := f.session(newTest(1), WithTickInterval(time.Millisecond))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Abort())

	remaining := s.RemainingSeconds()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, remaining, s.RemainingSeconds())
}

func TestReportPercentageUsesTestTotal(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	test := newTest(30)
	test.TotalMarks = 0

	f.confirmer.EXPECT().Confirm(gomock.Any()).Return(true)
	f.runner.EXPECT().RunAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(evaluation(5, 5, 10))
	f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil)

	s := f.session(test)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.SelectOption("1", 2))
	report, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, report.TotalMarks)
	assert.Equal(t, "100.0", report.Percentage)
	assert.Equal(t, constants.GradeExcellent, report.Grade)
}

type autoSubmitResult struct {
	report *Report
	err    error
}

func awaitAutoSubmit(t *testing.T, results <-chan autoSubmitResult) autoSubmitResult {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatalf("countdown did not submit")
		return autoSubmitResult{}
	}
}

func TestSession_CountdownWithoutSubmitter(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	results := make(chan autoSubmitResult, 1)
	hook := func(r *Report, err error) { results <- autoSubmitResult{report: r, err: err} }

	f.runner.EXPECT().RunAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(evaluation(5, 5, 10))

	s := NewSession(newTest(1), "", f.runner, nil, AutoConfirm,
		WithTickInterval(time.Millisecond), WithAutoSubmitHook(hook))
	require.NoError(t, s.Start(context.Background()))
	defer s.SignOut()

	got := awaitAutoSubmit(t, results)
	require.NoError(t, got.err)
	assert.Equal(t, 10, got.report.Score)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSession_ZeroDurationSubmitsOnFirstTick(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	results := make(chan autoSubmitResult, 1)
	hook := func(r *Report, err error) { results <- autoSubmitResult{report: r, err: err} }

	f.runner.EXPECT().RunAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(evaluation(0, 5, 0))
	f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil)

	s := f.session(newTest(0), WithTickInterval(time.Millisecond), WithAutoSubmitHook(hook))
	require.NoError(t, s.Start(context.Background()))

	got := awaitAutoSubmit(t, results)
	require.NoError(t, got.err)
	assert.Equal(t, StateSubmitted, s.State())
	assert.Equal(t, 0, s.RemainingSeconds())
}

func TestSession_SubmissionErrorWrappedOnce(t *testing.T) {
	ctrl, f := newFixture(t)
	defer ctrl.Finish()

	f.confirmer.EXPECT().Confirm(gomock.Any()).Return(true)
	f.runner.EXPECT().RunAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(evaluation(5, 5, 10))
	f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: status 502", pkgerrors.ErrSubmissionFailed))

	s := f.session(newTest(30))
	require.NoError(t, s.Start(context.Background()))
	defer s.SignOut()

	_, err := s.Submit(context.Background())
	require.ErrorIs(t, err, pkgerrors.ErrSubmissionFailed)
	assert.Equal(t, "submission failed: status 502", err.Error())
}
