package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mini-maxit/grader/internal/config"
	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/internal/rabbitmq"
	"github.com/mini-maxit/grader/internal/rabbitmq/consumer"
	"github.com/mini-maxit/grader/internal/rabbitmq/responder"
	"github.com/mini-maxit/grader/internal/scheduler"
	"github.com/mini-maxit/grader/internal/session"
	"github.com/mini-maxit/grader/internal/submission"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/questions"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := logger.NewNamedLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		logger.Errorf("%s", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "grader",
		Usage: "grade timed tests of multiple choice and programming questions",
		Commands: []*cli.Command{
			evaluateCommand(),
			runCommand(),
			workerCommand(),
			languagesCommand(),
		},
	}
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func evaluateCommand() *cli.Command {
	return &cli.Command{
		Name:  "evaluate",
		Usage: "grade a whole attempt from a test file and an answers file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "test", Usage: "test definition JSON file", Required: true},
			&cli.StringFlag{Name: "answers", Usage: "answers JSON file", Required: true},
			&cli.StringFlag{Name: "student", Usage: "student identifier", Required: true},
			&cli.BoolFlag{Name: "submit", Usage: "send the graded attempt to the configured submitter"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.NewNamedLogger("evaluate")
			cfg := config.NewConfig()

			test, err := loadTest(cmd.String("test"))
			if err != nil {
				return err
			}
			answers, err := loadAnswers(cmd.String("answers"))
			if err != nil {
				return err
			}

			r, _, err := newRunner(ctx, cfg, log)
			if err != nil {
				return err
			}
			submitter, release, err := newSubmitter(cfg, cmd.Bool("submit"))
			if err != nil {
				return err
			}
			defer release()

			s := session.NewSession(test, questions.ID(cmd.String("student")), r, submitter, session.AutoConfirm)
			if err := s.Start(ctx); err != nil {
				return err
			}
			defer s.SignOut()

			if err := applyAnswers(s, answers); err != nil {
				return err
			}

			report, err := s.Submit(ctx)
			if err != nil {
				return err
			}
			printReport(output(cmd), report)
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "preview a programming answer against the sample cases",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "test", Usage: "test definition JSON file", Required: true},
			&cli.StringFlag{Name: "question", Usage: "programming question id", Required: true},
			&cli.StringFlag{Name: "language", Usage: "answer language", Value: languages.DefaultLanguage().String()},
			&cli.StringFlag{Name: "code", Usage: "file holding the answer source", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.NewNamedLogger("run")
			cfg := config.NewConfig()

			test, err := loadTest(cmd.String("test"))
			if err != nil {
				return err
			}
			code, err := os.ReadFile(cmd.String("code"))
			if err != nil {
				return err
			}
			lt, err := languages.ParseLanguageType(cmd.String("language"))
			if err != nil {
				return err
			}

			r, _, err := newRunner(ctx, cfg, log)
			if err != nil {
				return err
			}

			// Previews never submit; a countdown expiring mid-run goes to the dry run.
			s := session.NewSession(test, "", r, submission.NewDryRunSubmitter(), session.AutoConfirm)
			if err := s.Start(ctx); err != nil {
				return err
			}
			defer s.SignOut()

			id := questions.ID(cmd.String("question"))
			if err := s.SetCode(id, lt, string(code)); err != nil {
				return err
			}
			eval, err := s.Run(ctx, id)
			if err != nil {
				return err
			}
			printEvaluation(output(cmd), eval)
			return nil
		},
	}
}

func workerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "consume evaluation requests from RabbitMQ",
		Action: func(ctx context.Context, _ *cli.Command) error {
			log := logger.NewNamedLogger("worker")
			log.Info("Starting grading worker")

			cfg := config.NewConfig()
			r, registry, err := newRunner(ctx, cfg, log)
			if err != nil {
				return err
			}

			conn := rabbitmq.NewRabbitMqConnection(cfg)
			defer func() {
				if conn.IsClosed() {
					return
				}
				if err := conn.Close(); err != nil {
					log.Errorf("Failed to close RabbitMQ connection: %s", err)
				}
			}()

			ch := rabbitmq.NewRabbitMQChannel(conn)
			resp := responder.NewResponder(ch)
			sched := scheduler.NewScheduler(cfg.MaxWorkers, r, resp, cfg.EvaluationTimeout)
			cons := consumer.NewConsumer(ch, cfg.WorkerQueueName, sched, resp, registry.Versions())

			go func() {
				<-ctx.Done()
				log.Info("Shutting down, closing RabbitMQ connection")
				_ = conn.Close()
			}()

			cons.Listen()
			return nil
		},
	}
}

func languagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "list supported languages and remote runtime versions",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.NewNamedLogger("languages")
			_, registry, err := newRunner(ctx, config.NewConfig(), log)
			if err != nil {
				return fmt.Errorf("build executors: %w", err)
			}
			printLanguages(output(cmd), languages.GetSupportedLanguagesWithVersions(registry.Versions()))
			return nil
		},
	}
}
