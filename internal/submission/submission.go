// Package submission hands a graded attempt to the backend that persists it.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/internal/rabbitmq/channel"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/errors"
	"github.com/mini-maxit/grader/pkg/messages"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Submitter interface {
	Submit(ctx context.Context, req messages.SubmissionRequest) error
}

type httpSubmitter struct {
	endpoint string
	client   *http.Client
	logger   *zap.SugaredLogger
}

// NewHTTPSubmitter posts attempts to baseURL + /student/tests/submit.
func NewHTTPSubmitter(baseURL string, timeout time.Duration) Submitter {
	return &httpSubmitter{
		endpoint: strings.TrimRight(baseURL, "/") + constants.SubmitEndpointPath,
		client:   &http.Client{Timeout: timeout},
		logger:   logger.NewNamedLogger("http-submitter"),
	}
}

func (s *httpSubmitter) Submit(ctx context.Context, req messages.SubmissionRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrSubmissionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	s.logger.Infof("Submitting score %d/%d [TestID: %s]", req.Score, req.TotalMarks, req.TestID)
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s", errors.ErrSubmissionFailed, strings.TrimSpace(string(text)))
	}
	return nil
}

type queueSubmitter struct {
	channel   channel.Channel
	queueName string
	declared  bool
	logger    *zap.SugaredLogger
}

// NewQueueSubmitter publishes attempts as persistent messages on queueName.
func NewQueueSubmitter(ch channel.Channel, queueName string) Submitter {
	return &queueSubmitter{
		channel:   ch,
		queueName: queueName,
		logger:    logger.NewNamedLogger("queue-submitter"),
	}
}

func (s *queueSubmitter) Submit(_ context.Context, req messages.SubmissionRequest) error {
	if !s.declared {
		if _, err := s.channel.QueueDeclare(s.queueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("%w: declare queue %s: %w", errors.ErrSubmissionFailed, s.queueName, err)
		}
		s.declared = true
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	err = s.channel.Publish("", s.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrSubmissionFailed, err)
	}

	s.logger.Infof("Published submission to %s [TestID: %s]", s.queueName, req.TestID)
	return nil
}

type dryRunSubmitter struct {
	logger *zap.SugaredLogger
}

// NewDryRunSubmitter accepts every attempt without sending it anywhere.
func NewDryRunSubmitter() Submitter {
	return &dryRunSubmitter{logger: logger.NewNamedLogger("dry-run-submitter")}
}

func (s *dryRunSubmitter) Submit(_ context.Context, req messages.SubmissionRequest) error {
	s.logger.Infof("Dry run, not submitting score %d/%d [TestID: %s]", req.Score, req.TotalMarks, req.TestID)
	return nil
}
