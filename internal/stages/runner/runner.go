package runner

import (
	"context"

	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/internal/stages/executor"
	"github.com/mini-maxit/grader/internal/stages/scorer"
	"github.com/mini-maxit/grader/internal/stages/verifier"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/questions"
	"github.com/mini-maxit/grader/pkg/solution"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner grades one programming question. Failing cases produce failed
// outcomes, the batch itself never fails.
type Runner interface {
	RunAll(
		ctx context.Context,
		code string,
		question *questions.Programming,
		lt languages.LanguageType,
		mode solution.Mode,
	) solution.QuestionEvaluation
}

type runner struct {
	registry    executor.Registry
	verifier    verifier.Verifier
	parallelism int
	logger      *zap.SugaredLogger
}

// NewRunner returns a runner that executes up to parallelism cases at once.
// Anything below 2 runs the cases one after another.
func NewRunner(registry executor.Registry, verifier verifier.Verifier, parallelism int) Runner {
	return &runner{
		registry:    registry,
		verifier:    verifier,
		parallelism: parallelism,
		logger:      logger.NewNamedLogger("runner"),
	}
}

func (r *runner) RunAll(
	ctx context.Context,
	code string,
	question *questions.Programming,
	lt languages.LanguageType,
	mode solution.Mode,
) solution.QuestionEvaluation {
	cases := question.TestCases
	if mode == solution.ModeSamples {
		cases = question.SampleCases()
	}

	r.logger.Infof("Running %d test cases in %s mode [QuestionID: %s]", len(cases), mode, question.ID)
	exec := r.registry.Get(lt)
	outcomes := make([]solution.TestCaseOutcome, len(cases))

	if r.parallelism > 1 {
		g := errgroup.Group{}
		g.SetLimit(r.parallelism)
		for i, tc := range cases {
			g.Go(func() error {
				outcomes[i] = r.runCase(ctx, exec, code, i, tc)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, tc := range cases {
			outcomes[i] = r.runCase(ctx, exec, code, i, tc)
		}
	}

	eval := solution.QuestionEvaluation{
		SampleCount:    question.SampleCount(),
		TotalTestCount: len(cases),
		TotalMarks:     question.Marks,
		Outcomes:       outcomes,
	}
	for _, o := range outcomes {
		if !o.Passed {
			continue
		}
		eval.AllPassedCount++
		if o.IsSample {
			eval.SamplePassedCount++
		}
	}
	eval.PassPercentage = solution.Percentage(eval.AllPassedCount, eval.TotalTestCount)

	// A preview never awards marks.
	if mode != solution.ModeSamples {
		eval.EarnedMarks = scorer.Score(eval.AllPassedCount, eval.SamplePassedCount, eval.TotalTestCount, question.Marks)
	}

	r.logger.Infof("Passed %d/%d test cases, earned %d/%d marks [QuestionID: %s]",
		eval.AllPassedCount, eval.TotalTestCount, eval.EarnedMarks, eval.TotalMarks, question.ID)
	return eval
}

func (r *runner) runCase(
	ctx context.Context,
	exec executor.Executor,
	code string,
	index int,
	tc questions.TestCase,
) solution.TestCaseOutcome {
	outcome := solution.TestCaseOutcome{
		TestCase:       index + 1,
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		IsSample:       questions.IsSample(index),
	}

	result := exec.Execute(ctx, code, tc.Input)
	outcome.ExecutionTimeMs = result.ExecutionTimeMs
	if result.Failed() {
		outcome.ActualOutput = result.Error
		outcome.Error = result.Error
		r.logger.Debugf("Test case %d failed with error: %s", index+1, result.Error)
		return outcome
	}

	actual, expected := result.Output, tc.ExpectedOutput
	outcome.ActualOutput = actual
	outcome.Passed = r.verifier.CompareOutput(&actual, &expected)
	return outcome
}
