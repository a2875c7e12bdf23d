package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/internal/rabbitmq/responder"
	"github.com/mini-maxit/grader/internal/stages/runner"
	"github.com/mini-maxit/grader/pkg/constants"
	customErr "github.com/mini-maxit/grader/pkg/errors"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/messages"
	"github.com/mini-maxit/grader/pkg/questions"
	"github.com/mini-maxit/grader/pkg/solution"
	"go.uber.org/zap"
)

type Worker interface {
	ProcessEvaluation(messageID, responseQueue string, req *messages.EvaluateQueueMessage)
	GetStatus() constants.WorkerStatus
	UpdateStatus(status constants.WorkerStatus)
	GetProcessingMessageID() string
	GetId() int
}

type WorkerState struct {
	Status              constants.WorkerStatus `json:"status"`
	ProcessingMessageID string                 `json:"processing_message_id"`
}

type worker struct {
	id        int
	mu        sync.RWMutex
	state     WorkerState
	runner    runner.Runner
	responder responder.Responder
	timeout   time.Duration
	logger    *zap.SugaredLogger
}

// NewWorker builds a grading worker. A timeout of zero leaves a single
// evaluation unbounded.
func NewWorker(id int, runner runner.Runner, responder responder.Responder, timeout time.Duration) Worker {
	return &worker{
		id:        id,
		state:     WorkerState{Status: constants.WorkerStatusIdle},
		runner:    runner,
		responder: responder,
		timeout:   timeout,
		logger:    logger.NewNamedLogger(fmt.Sprintf("worker-%d", id)),
	}
}

func (ws *worker) GetId() int {
	return ws.id
}

func (ws *worker) GetStatus() constants.WorkerStatus {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.state.Status
}

func (ws *worker) UpdateStatus(status constants.WorkerStatus) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.state.Status = status
}

func (ws *worker) GetProcessingMessageID() string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.state.ProcessingMessageID
}

func (ws *worker) setProcessingMessageID(messageID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.state.ProcessingMessageID = messageID
}

func (ws *worker) ProcessEvaluation(messageID, responseQueue string, req *messages.EvaluateQueueMessage) {
	defer func() {
		if r := recover(); r != nil {
			ws.logger.Errorf("Recovered from panic [MsgID: %s]: %v", messageID, r)
			ws.publishError(messageID, responseQueue, fmt.Errorf("worker panic: %v", r))
		}
	}()

	ws.logger.Infof("Processing evaluation [MsgID: %s]", messageID)
	ws.setProcessingMessageID(messageID)
	defer ws.setProcessingMessageID("")

	question, lt, mode, err := ws.decodeRequest(req)
	if err != nil {
		ws.logger.Errorf("Invalid evaluation request [MsgID: %s]: %s", messageID, err)
		ws.publishError(messageID, responseQueue, err)
		return
	}

	ctx := context.Background()
	if ws.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ws.timeout)
		defer cancel()
	}

	evaluation := ws.runner.RunAll(ctx, req.Code, question, lt, mode)

	err = ws.responder.PublishSuccessEvaluationRespond(
		constants.QueueMessageTypeEvaluate,
		messageID,
		responseQueue,
		evaluation,
	)
	if err != nil {
		ws.logger.Errorf("Failed to publish evaluation [MsgID: %s]: %s", messageID, err)
		ws.publishError(messageID, responseQueue, err)
		return
	}

	ws.logger.Infof("Finished evaluation %d/%d passed [MsgID: %s]",
		evaluation.AllPassedCount, evaluation.TotalTestCount, messageID)
}

func (ws *worker) decodeRequest(
	req *messages.EvaluateQueueMessage,
) (*questions.Programming, languages.LanguageType, solution.Mode, error) {
	if req == nil {
		return nil, 0, 0, customErr.ErrInvalidQuestion
	}

	q, err := questions.DecodeQuestion(req.Question)
	if err != nil {
		return nil, 0, 0, err
	}
	programming, ok := q.(*questions.Programming)
	if !ok {
		return nil, 0, 0, customErr.ErrWrongQuestionType
	}

	lt := languages.DefaultLanguage()
	if req.Language != "" {
		lt, err = languages.ParseLanguageType(req.Language)
		if err != nil {
			return nil, 0, 0, err
		}
	}

	mode, err := solution.ParseMode(req.Mode)
	if err != nil {
		return nil, 0, 0, err
	}

	return programming, lt, mode, nil
}

func (ws *worker) publishError(messageID, responseQueue string, err error) {
	ws.responder.PublishErrorToResponseQueue(constants.QueueMessageTypeEvaluate, messageID, responseQueue, err)
}
