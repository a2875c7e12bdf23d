package main

import (
	"context"
	"fmt"

	"github.com/mini-maxit/grader/internal/config"
	"github.com/mini-maxit/grader/internal/rabbitmq"
	"github.com/mini-maxit/grader/internal/remote"
	"github.com/mini-maxit/grader/internal/stages/executor"
	"github.com/mini-maxit/grader/internal/stages/runner"
	"github.com/mini-maxit/grader/internal/stages/verifier"
	"github.com/mini-maxit/grader/internal/storage"
	"github.com/mini-maxit/grader/internal/submission"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/errors"
	"go.uber.org/zap"
)

// newRegistry builds the executors. A memory cache is swept until ctx is done.
func newRegistry(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (executor.Registry, error) {
	cache, err := storage.NewExecutionCache(cfg.ExecutionCache, cfg.CacheTTL, storage.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	if mc, ok := cache.(storage.MemoryCache); ok {
		go storage.SweepExpired(ctx, mc, cfg.CacheTTL)
	}

	execCfg := executor.Config{
		PythonRunner:  remote.NewPistonClient(cfg.PistonURL, cfg.RemoteTimeout),
		PythonVersion: cfg.PythonVersion,
		JavaVersion:   cfg.JavaVersionIndex,
		JSTimeout:     cfg.JSTimeout,
		Cache:         cache,
	}
	if cfg.JDoodleClientID != "" && cfg.JDoodleClientSecret != "" {
		execCfg.JavaRunner = remote.NewJDoodleClient(
			cfg.JDoodleURL, cfg.JDoodleClientID, cfg.JDoodleClientSecret, cfg.RemoteTimeout,
		)
	} else {
		logger.Warn("JDoodle credentials are not set, Java answers are simulated")
	}

	return executor.NewDefaultRegistry(execCfg), nil
}

func newRunner(
	ctx context.Context,
	cfg *config.Config,
	logger *zap.SugaredLogger,
) (runner.Runner, executor.Registry, error) {
	registry, err := newRegistry(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return runner.NewRunner(registry, verifier.NewDefaultVerifier(), cfg.RunnerParallelism), registry, nil
}

// newSubmitter returns the configured submitter and a function releasing
// whatever connection it holds.
func newSubmitter(cfg *config.Config, submit bool) (submission.Submitter, func(), error) {
	noop := func() {}
	if !submit {
		return submission.NewDryRunSubmitter(), noop, nil
	}

	switch cfg.Submitter {
	case constants.SubmitterHTTP:
		return submission.NewHTTPSubmitter(cfg.BackendAPIURL, cfg.RemoteTimeout), noop, nil
	case constants.SubmitterQueue:
		conn := rabbitmq.NewRabbitMqConnection(cfg)
		ch := rabbitmq.NewRabbitMQChannel(conn)
		return submission.NewQueueSubmitter(ch, cfg.SubmissionQueueName), func() { _ = conn.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("%w: %s", errors.ErrUnknownSubmitter, cfg.Submitter)
	}
}
