package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/solution"
	"go.uber.org/zap"
)

// The submitted code becomes the body of a function that only sees input and
// a stub console. solution is preferred over main.
const jsHarnessSource = `(function (code, raw) {
	var input;
	try {
		input = JSON.parse(raw);
	} catch (e) {
		input = raw;
	}
	var stubConsole = {
		log: function (val) {
			return String(val);
		}
	};
	try {
		var body = code +
			"\n;if (typeof solution === 'function') { return solution(input); }" +
			"\nif (typeof main === 'function') { return main(input); }" +
			"\nreturn null;";
		var result = new Function("input", "console", body)(input, stubConsole);
		if (result === null || result === undefined) {
			return { ok: false, noValue: true };
		}
		return { ok: true, output: String(result) };
	} catch (e) {
		return { ok: false, message: String(e && e.message) };
	}
})`

var jsHarness = goja.MustCompile("harness.js", jsHarnessSource, false)

var errJSTimeout = errors.New("timeout")

type javaScriptExecutor struct {
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewJavaScriptExecutor runs code in-process with a fresh runtime per call.
// A non-positive timeout disables the time limit.
func NewJavaScriptExecutor(timeout time.Duration) Executor {
	return &javaScriptExecutor{
		timeout: timeout,
		logger:  logger.NewNamedLogger("js-executor"),
	}
}

func (e *javaScriptExecutor) Execute(ctx context.Context, code, input string) solution.ExecutionResult {
	vm := goja.New()
	vm.SetMaxCallStackSize(constants.JSMaxCallStackSize)

	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() { vm.Interrupt(errJSTimeout) })
		defer timer.Stop()
	}
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	harness, err := vm.RunProgram(jsHarness)
	if err != nil {
		return e.runtimeError(err)
	}
	run, ok := goja.AssertFunction(harness)
	if !ok {
		return e.runtimeError(errors.New("harness is not callable"))
	}

	start := time.Now()
	value, err := run(goja.Undefined(), vm.ToValue(code), vm.ToValue(input))
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		return e.runtimeError(err)
	}

	outcome := value.ToObject(vm)
	if outcome.Get("ok").ToBoolean() {
		return solution.Succeeded(outcome.Get("output").String(), elapsed)
	}
	if outcome.Get("noValue") != nil && outcome.Get("noValue").ToBoolean() {
		return solution.Failed(constants.ExecutorMessageNoReturnValue)
	}
	return solution.Failed(fmt.Sprintf(constants.ExecutorMessageRuntimeError, outcome.Get("message").String()))
}

func (e *javaScriptExecutor) runtimeError(err error) solution.ExecutionResult {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		reason := interrupted.Value()
		if reason == errJSTimeout {
			return solution.Failed(fmt.Sprintf(constants.ExecutorMessageRuntimeError,
				fmt.Sprintf(constants.ExecutorMessageTimeout, e.timeout.Milliseconds())))
		}
		if cause, ok := reason.(error); ok {
			return solution.Failed(fmt.Sprintf(constants.ExecutorMessageRuntimeError, cause.Error()))
		}
	}

	var overflow *goja.StackOverflowError
	if errors.As(err, &overflow) {
		return solution.Failed(fmt.Sprintf(constants.ExecutorMessageRuntimeError, constants.ExecutorMessageStackOverflow))
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		return solution.Failed(fmt.Sprintf(constants.ExecutorMessageRuntimeError, exception.Value().String()))
	}
	e.logger.Errorf("Unexpected JavaScript runtime failure: %s", err)
	return solution.Failed(fmt.Sprintf(constants.ExecutorMessageRuntimeError, err.Error()))
}
