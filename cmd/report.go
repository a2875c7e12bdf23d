package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mini-maxit/grader/internal/session"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/solution"
)

var (
	headerColor = color.New(color.Bold)
	passColor   = color.New(color.FgGreen)
	partColor   = color.New(color.FgYellow)
	failColor   = color.New(color.FgRed)
)

func questionColor(r session.QuestionResult) *color.Color {
	switch {
	case r.EarnedMarks >= r.TotalMarks && r.TotalMarks > 0:
		return passColor
	case r.EarnedMarks > 0:
		return partColor
	case r.Evaluation == nil && r.Correct:
		return passColor
	default:
		return failColor
	}
}

func gradeColor(grade string) *color.Color {
	switch grade {
	case constants.GradeExcellent, constants.GradeVeryGood:
		return passColor
	case constants.GradeGood, constants.GradeNeedToImprove:
		return partColor
	default:
		return failColor
	}
}

func printReport(w io.Writer, report *session.Report) {
	headerColor.Fprintf(w, "Attempt %s for test %s\n", report.AttemptID, report.TestID)
	for _, q := range report.Questions {
		questionColor(q).Fprintln(w, q.Summary())
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Score: %d/%d (%s%%)\n", report.Score, report.TotalMarks, report.Percentage)
	gradeColor(report.Grade).Fprintf(w, "Grade: %s\n", report.Grade)
}

func printEvaluation(w io.Writer, eval solution.QuestionEvaluation) {
	headerColor.Fprintf(w, "%d/%d sample tests passed (%s%%)\n",
		eval.SamplePassedCount, eval.TotalTestCount, eval.PassPercentage)
	for _, o := range eval.Outcomes {
		c := passColor
		verdict := "passed"
		if !o.Passed {
			c, verdict = failColor, "failed"
		}
		c.Fprintf(w, "Test %d %s: input %q expected %q got %q\n",
			o.TestCase, verdict, o.Input, o.ExpectedOutput, o.ActualOutput)
	}
}

func printLanguages(w io.Writer, specs []languages.LanguageSpec) {
	for _, spec := range specs {
		mode := "local"
		if spec.Remote {
			mode = "remote"
		}
		if spec.Version != "" {
			fmt.Fprintf(w, "%-12s %-7s %s\n", spec.LanguageName, mode, spec.Version)
			continue
		}
		fmt.Fprintf(w, "%-12s %s\n", spec.LanguageName, mode)
	}
}
