package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mini-maxit/grader/internal/session"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/solution"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestPrintReport(t *testing.T) {
	report := &session.Report{
		AttemptID:  "a-1",
		TestID:     "12",
		Score:      7,
		TotalMarks: 12,
		Percentage: "58.3",
		Grade:      constants.GradeNeedToImprove,
		Questions: []session.QuestionResult{
			{Number: 1, QuestionID: "1", Type: constants.QuestionTypeMultipleChoice, Correct: true, EarnedMarks: 2, TotalMarks: 2},
			{
				Number: 2, QuestionID: "2", Title: "Square", Type: constants.QuestionTypeProgramming,
				EarnedMarks: 5, TotalMarks: 10,
				Evaluation: &solution.QuestionEvaluation{AllPassedCount: 3, TotalTestCount: 5, PassPercentage: "60.0"},
			},
		},
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Equal(t, "Attempt a-1 for test 12", lines[0])
	assert.Equal(t, "Q1 (MCQ): ✓ Correct - 2/2 marks", lines[1])
	assert.Equal(t, "Q2 (Square): 3/5 tests passed (60.0%) - 5/10 marks", lines[2])
	assert.Equal(t, "Score: 7/12 (58.3%)", lines[4])
	assert.Equal(t, "Grade: Need to Improve", lines[5])
}

func TestQuestionColor(t *testing.T) {
	tests := []struct {
		name     string
		result   session.QuestionResult
		expected *color.Color
	}{
		{name: "full marks", result: session.QuestionResult{EarnedMarks: 2, TotalMarks: 2, Correct: true}, expected: passColor},
		{name: "partial marks", result: session.QuestionResult{
			EarnedMarks: 3, TotalMarks: 10, Evaluation: &solution.QuestionEvaluation{},
		}, expected: partColor},
		{name: "wrong", result: session.QuestionResult{TotalMarks: 2}, expected: failColor},
		{name: "correct zero mark question", result: session.QuestionResult{Correct: true}, expected: passColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := questionColor(tt.result); got != tt.expected {
				t.Fatalf("unexpected colour for %s", tt.name)
			}
		})
	}
}

func TestGradeColor(t *testing.T) {
	assert.Same(t, passColor, gradeColor(constants.GradeExcellent))
	assert.Same(t, partColor, gradeColor(constants.GradeGood))
	assert.Same(t, failColor, gradeColor(constants.GradePoor))
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	printEvaluation(&buf, solution.QuestionEvaluation{
		SamplePassedCount: 1,
		TotalTestCount:    2,
		PassPercentage:    "50.0",
		Outcomes: []solution.TestCaseOutcome{
			{TestCase: 1, Input: "2", ExpectedOutput: "4", ActualOutput: "4", Passed: true},
			{TestCase: 2, Input: "3", ExpectedOutput: "9", ActualOutput: "6"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "1/2 sample tests passed (50.0%)")
	assert.Contains(t, out, `Test 1 passed: input "2" expected "4" got "4"`)
	assert.Contains(t, out, `Test 2 failed: input "3" expected "9" got "6"`)
}

func TestPrintLanguages(t *testing.T) {
	var buf bytes.Buffer
	printLanguages(&buf, languages.GetSupportedLanguagesWithVersions(map[languages.LanguageType]string{
		languages.Python: "3.10.0",
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(languages.LanguageTypeMap) {
		t.Fatalf("expected %d lines, got %d", len(languages.LanguageTypeMap), len(lines))
	}
	assert.Contains(t, lines[0], "python")
	assert.Contains(t, lines[0], "remote")
	assert.Contains(t, lines[0], "3.10.0")
	assert.Contains(t, lines[2], "javascript")
	assert.Contains(t, lines[2], "local")
}
