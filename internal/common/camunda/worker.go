// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"
)

// HandlerFunc is the signature every worker handler exposes.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Worker wraps an open Zeebe job worker subscription.
type Worker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
}

// OpenWorker subscribes a handler for the given task type and starts polling.
func (c *Client) OpenWorker(opts WorkerOptions, handler HandlerFunc, log *zap.Logger) *Worker {
	builder := c.client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(opts.MaxJobsActive)
	if opts.Timeout > 0 {
		builder = builder.Timeout(opts.Timeout)
	}

	jobWorker := builder.Open()

	log.Info("worker started",
		zap.String("taskType", opts.TaskType),
		zap.Int("maxJobsActive", opts.MaxJobsActive),
		zap.Duration("timeout", opts.Timeout),
	)

	return &Worker{
		worker:   jobWorker,
		logger:   log,
		taskType: opts.TaskType,
	}
}

// Stop drains in-flight jobs and closes the subscription. The shared
// Zeebe connection is owned by the Client and is not closed here.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
}
