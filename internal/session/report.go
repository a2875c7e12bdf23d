package session

import (
	"fmt"
	"strings"

	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/questions"
	"github.com/mini-maxit/grader/pkg/solution"
)

type QuestionResult struct {
	Number      int // 1-based position in the test
	QuestionID  questions.ID
	Title       string
	Type        string
	Correct     bool
	EarnedMarks int
	TotalMarks  int
	// Set for programming questions only.
	Evaluation *solution.QuestionEvaluation
}

func (r QuestionResult) IsProgramming() bool {
	return r.Evaluation != nil
}

func (r QuestionResult) Summary() string {
	if r.Evaluation == nil {
		verdict := constants.SessionSummaryWrong
		if r.Correct {
			verdict = constants.SessionSummaryCorrect
		}
		return fmt.Sprintf(constants.SessionSummaryMultipleChoice, r.Number, verdict, r.EarnedMarks, r.TotalMarks)
	}
	e := r.Evaluation
	return fmt.Sprintf(constants.SessionSummaryProgramming,
		r.Number, r.Title, e.AllPassedCount, e.TotalTestCount, e.PassPercentage, r.EarnedMarks, r.TotalMarks)
}

// Report is what the test-taker sees after a successful submission.
type Report struct {
	AttemptID  string
	TestID     questions.ID
	Score      int
	TotalMarks int
	Percentage string
	Grade      string
	Questions  []QuestionResult
}

func newReport(attemptID string, testID questions.ID, results []QuestionResult, score, totalMarks int) *Report {
	percentage := solution.Percentage(score, totalMarks)
	return &Report{
		AttemptID:  attemptID,
		TestID:     testID,
		Score:      score,
		TotalMarks: totalMarks,
		Percentage: percentage,
		Grade:      solution.Grade(percentage),
		Questions:  results,
	}
}

func (r *Report) SummaryLines() []string {
	lines := make([]string, 0, len(r.Questions))
	for _, q := range r.Questions {
		lines = append(lines, q.Summary())
	}
	return lines
}

func (r *Report) Summary() string {
	return strings.Join(r.SummaryLines(), "\n")
}
