package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/internal/pipeline"
	"github.com/mini-maxit/grader/internal/rabbitmq/responder"
	"github.com/mini-maxit/grader/internal/stages/runner"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/errors"
	"github.com/mini-maxit/grader/pkg/messages"
	"go.uber.org/zap"
)

type Scheduler interface {
	GetWorkersStatus() map[string]any
	ProcessEvaluation(responseQueue, messageID string, req *messages.EvaluateQueueMessage) error
}

type scheduler struct {
	mu               sync.Mutex
	busyWorkersCount int
	workers          map[int]pipeline.Worker
	maxWorkers       int
	logger           *zap.SugaredLogger
}

func NewScheduler(
	maxWorkers int,
	runner runner.Runner,
	responder responder.Responder,
	evaluationTimeout time.Duration,
) Scheduler {
	workers := make(map[int]pipeline.Worker, maxWorkers)
	for i := range maxWorkers {
		workers[i] = pipeline.NewWorker(i, runner, responder, evaluationTimeout)
	}

	return NewSchedulerWithWorkers(maxWorkers, workers)
}

// NewSchedulerWithWorkers wires an already built worker pool.
func NewSchedulerWithWorkers(maxWorkers int, workers map[int]pipeline.Worker) Scheduler {
	return &scheduler{
		workers:    workers,
		maxWorkers: maxWorkers,
		logger:     logger.NewNamedLogger("scheduler"),
	}
}

func (s *scheduler) GetWorkersStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]messages.WorkerStatus, 0, len(s.workers))
	for id, worker := range s.workers {
		status := messages.WorkerStatus{WorkerID: id, Status: worker.GetStatus()}
		if status.Status == constants.WorkerStatusBusy {
			status.ProcessingMessageID = worker.GetProcessingMessageID()
		}
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].WorkerID < statuses[j].WorkerID })

	return map[string]any{
		"busy_workers":  s.busyWorkersCount,
		"total_workers": s.maxWorkers,
		"worker_status": statuses,
	}
}

func (s *scheduler) getFreeWorker() (pipeline.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.maxWorkers {
		worker, ok := s.workers[id]
		if !ok {
			continue
		}
		if worker.GetStatus() == constants.WorkerStatusIdle {
			worker.UpdateStatus(constants.WorkerStatusBusy)
			s.busyWorkersCount++
			return worker, nil
		}
	}

	return nil, errors.ErrFailedToGetFreeWorker
}

func (s *scheduler) ProcessEvaluation(responseQueue, messageID string, req *messages.EvaluateQueueMessage) error {
	s.logger.Infof("Scheduling evaluation [MsgID: %s]", messageID)

	worker, err := s.getFreeWorker()
	if err != nil {
		s.logger.Warnf("No available workers [MsgID: %s]: %s", messageID, err)
		return err
	}

	go func(w pipeline.Worker) {
		defer s.markWorkerAsIdle(w)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("Worker panicked [WorkerID: %d]: %v", w.GetId(), r)
			}
		}()

		w.ProcessEvaluation(messageID, responseQueue, req)
	}(worker)

	return nil
}

func (s *scheduler) markWorkerAsIdle(worker pipeline.Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker.UpdateStatus(constants.WorkerStatusIdle)
	s.busyWorkersCount--

	s.logger.Infof("Worker marked as idle [WorkerID: %d]", worker.GetId())
}
