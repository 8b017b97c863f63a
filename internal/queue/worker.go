package queue

import (
	"context"
	"log"
	"time"
)

// Job names the work a rollup invocation should do. Both reasons resolve to
// the same entry point with a computed range.
type Job struct {
	UserID int64
	From   time.Time
	To     time.Time
	Reason string
}

const (
	// ReasonRange is a rollup over an explicitly requested range.
	ReasonRange = "range"
	// ReasonSessionEnd is a rollup of the trailing window behind a capture
	// session that just ended.
	ReasonSessionEnd = "session-end"
)

// SessionEndJob builds the trailing-window job for a capture session that
// ended at endedAt.
func SessionEndJob(userID int64, endedAt time.Time, window time.Duration) Job {
	return Job{
		UserID: userID,
		From:   endedAt.Add(-window),
		To:     endedAt,
		Reason: ReasonSessionEnd,
	}
}

// Runner executes one rollup invocation. Satisfied by the rollup service.
type Runner interface {
	RollupUserActivity(ctx context.Context, userID int64, from, to time.Time) (int, error)
}

// WorkerPool processes rollup jobs on a fixed set of goroutines. Failed jobs
// are logged and dropped; re-dispatching the same range later is safe because
// the engine is idempotent.
type WorkerPool struct {
	size   int
	jobs   chan Job
	runner Runner
}

// NewWorkerPool creates a pool of size workers with a buffered job queue.
func NewWorkerPool(size, queueSize int, runner Runner) *WorkerPool {
	if queueSize < size {
		queueSize = size
	}
	return &WorkerPool{
		size:   size,
		jobs:   make(chan Job, queueSize),
		runner: runner,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("rollup worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			log.Printf("rollup worker %d processing user %d [%s, %s] (%s)",
				id, job.UserID, job.From, job.To, job.Reason)
			if _, err := wp.runner.RollupUserActivity(ctx, job.UserID, job.From, job.To); err != nil {
				log.Printf("rollup worker %d: job for user %d failed: %v", id, job.UserID, err)
			}
		case <-ctx.Done():
			log.Printf("rollup worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a job, blocking while the queue is full.
func (wp *WorkerPool) Dispatch(job Job) {
	wp.jobs <- job
}

// TryDispatch queues a job without blocking. It returns false when the queue
// is full so the caller can fall back to a direct synchronous invocation.
func (wp *WorkerPool) TryDispatch(job Job) bool {
	select {
	case wp.jobs <- job:
		return true
	default:
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Job {
	return wp.jobs
}
