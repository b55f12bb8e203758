// Package queue decouples best-effort persistence from the response path.
// Submission never blocks on I/O; a single worker applies tasks strictly in
// submission order.
package queue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soreahq/sorea/internal/metrics"
)

// Task captures one persistence operation at submission time. Immutable once
// enqueued.
type Task struct {
	ID string
	Op string
	fn func(context.Context) error
}

// Writer is the process-lifetime write queue. It is safe for concurrent
// submission; consumption is serialized by the one worker, so two writes to
// the same record from the same process cannot race each other.
type Writer struct {
	tasks chan Task
	log   *zap.Logger
}

const DefaultCapacity = 256

func NewWriter(capacity int, log *zap.Logger) *Writer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Writer{
		tasks: make(chan Task, capacity),
		log:   log,
	}
}

// Submit appends a task and returns immediately. When the queue is full the
// task is rejected and false is returned; the submitter never waits.
func (w *Writer) Submit(op string, fn func(context.Context) error) bool {
	task := Task{ID: uuid.New().String(), Op: op, fn: fn}

	select {
	case w.tasks <- task:
		metrics.QueueTasks.WithLabelValues("submitted").Inc()
		metrics.QueueDepth.Set(float64(len(w.tasks)))
		return true
	default:
		metrics.QueueTasks.WithLabelValues("dropped").Inc()
		w.log.Warn("write queue full, dropping task",
			zap.String("task", task.ID), zap.String("op", op))
		return false
	}
}

// Start launches the single worker. It runs until ctx is canceled; pending
// tasks at shutdown are lost with the process, by design.
func (w *Writer) Start(ctx context.Context) {
	go w.worker(ctx)
}

func (w *Writer) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.tasks:
			metrics.QueueDepth.Set(float64(len(w.tasks)))
			w.run(ctx, task)
		}
	}
}

// run executes one task. Failures are logged and the task discarded; there is
// no retry and no dead-letter, and the next task proceeds normally.
func (w *Writer) run(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			metrics.QueueTasks.WithLabelValues("failed").Inc()
			w.log.Error("write task panicked",
				zap.String("task", task.ID), zap.String("op", task.Op),
				zap.Error(fmt.Errorf("%v", r)))
		}
	}()

	if err := task.fn(ctx); err != nil {
		metrics.QueueTasks.WithLabelValues("failed").Inc()
		w.log.Error("write task failed",
			zap.String("task", task.ID), zap.String("op", task.Op), zap.Error(err))
		return
	}
	metrics.QueueTasks.WithLabelValues("processed").Inc()
}

// Depth reports the number of pending tasks.
func (w *Writer) Depth() int {
	return len(w.tasks)
}
