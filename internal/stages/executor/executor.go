package executor

import (
	"context"
	"strings"

	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/internal/remote"
	"github.com/mini-maxit/grader/internal/stages/simulator"
	"github.com/mini-maxit/grader/internal/storage"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/solution"
	"go.uber.org/zap"
)

// Executor runs source code against one input. Failures are reported in the
// result, never as a Go error.
type Executor interface {
	Execute(ctx context.Context, code, input string) solution.ExecutionResult
}

type remoteExecutor struct {
	language  languages.LanguageType
	version   string
	runner    remote.Runner
	simulator simulator.Simulator
	cache     storage.ExecutionCache
	logger    *zap.SugaredLogger
}

// NewRemoteExecutor delegates to runner and falls back to sim when the remote
// service cannot be reached. A nil runner always simulates. cache may be nil.
func NewRemoteExecutor(
	language languages.LanguageType,
	version string,
	runner remote.Runner,
	sim simulator.Simulator,
	cache storage.ExecutionCache,
) Executor {
	return &remoteExecutor{
		language:  language,
		version:   version,
		runner:    runner,
		simulator: sim,
		cache:     cache,
		logger:    logger.NewNamedLogger("executor"),
	}
}

func (e *remoteExecutor) Execute(ctx context.Context, code, input string) solution.ExecutionResult {
	if e.runner == nil {
		return e.simulator.Simulate(code, input)
	}

	remoteLanguage := languages.RemoteLanguageMap[e.language]
	key := storage.ExecutionKey(remoteLanguage, e.version, code, input)
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, key); ok {
			e.logger.Debugf("Serving %s execution from cache", e.language)
			return cached
		}
	}

	resp, err := e.runner.Run(ctx, remote.RunRequest{
		Source:   code,
		Stdin:    input,
		Language: remoteLanguage,
		Version:  e.version,
	})
	if err != nil {
		e.logger.Warnf("Remote %s execution failed, using simulator: %s", e.language, err)
		return e.simulator.Simulate(code, input)
	}

	if stderr := strings.TrimSpace(resp.Stderr); stderr != "" {
		return solution.Failed(stderr)
	}

	result := solution.Succeeded(strings.TrimSpace(resp.Stdout), resp.RuntimeMs)
	if e.cache != nil {
		e.cache.Set(ctx, key, result)
	}
	return result
}

type failingExecutor struct {
	message string
}

// NewCPPExecutor returns the C++ stub. C++ needs a server-side backend.
func NewCPPExecutor() Executor {
	return &failingExecutor{message: constants.ExecutorMessageCPPRequiresBackend}
}

// NewUnsupportedExecutor is used for languages without any executor.
func NewUnsupportedExecutor() Executor {
	return &failingExecutor{message: constants.ExecutorMessageNotSupported}
}

func (e *failingExecutor) Execute(context.Context, string, string) solution.ExecutionResult {
	return solution.Failed(e.message)
}
