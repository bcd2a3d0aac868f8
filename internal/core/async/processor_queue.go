package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/joseph-ayodele/docsense/internal/async"
	"github.com/joseph-ayodele/docsense/internal/common"
	"github.com/joseph-ayodele/docsense/internal/core/pipeline"
	"github.com/joseph-ayodele/docsense/internal/entity"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("queue is shutting down")

type ProcessorQueue struct {
	proc    *pipeline.Processor
	sink    async.Sink
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan async.Job
	wg   sync.WaitGroup
	once sync.Once

	// mu is held shared by Enqueue for the whole send so Shutdown never closes
	// ch under a sender; quit releases senders blocked on a full queue first.
	mu       sync.RWMutex
	closed   bool
	quit     chan struct{}
	quitOnce sync.Once

	done   atomic.Uint64
	failed atomic.Uint64
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan async.Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithSink sets the callback receiving finished jobs.
func WithSink(s async.Sink) Option {
	return func(q *ProcessorQueue) {
		if s != nil {
			q.sink = s
		}
	}
}

func NewProcessorQueue(proc *pipeline.Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		sink:    func(entity.ProcessJob) {},
		logger:  logger,
		workers: 4,
		timeout: 30 * time.Second,
		ch:      make(chan async.Job, 256),
		quit:    make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job async.Job) {
	ctx, cancel := common.WithTimeout(context.Background(), q.timeout)
	res, err := q.proc.ProcessDocument(ctx, job.ID, job.Document)
	cancel()

	if err != nil {
		q.failed.Add(1)
		q.logger.Error("processing failed", "worker_id", workerID, "job_id", job.ID, "path", res.SourcePath, "error", err)
	} else {
		q.done.Add(1)
		q.logger.Info("processed document successfully",
			"worker_id", workerID,
			"job_id", job.ID,
			"path", res.SourcePath,
			"type", res.Result.DocumentType,
			"wait", res.StartedAt.Sub(job.SubmittedAt),
		)
	}
	q.sink(res)
}

func (q *ProcessorQueue) Enqueue(ctx context.Context, job async.Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", job.ID)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued document for processing", "job_id", job.ID, "force", job.Force)
		return nil
	default:
	}

	q.logger.Warn("queue full, applying backpressure", "job_id", job.ID)
	select {
	case q.ch <- job:
		return nil
	case <-q.quit:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats reports how many jobs finished successfully and how many failed.
func (q *ProcessorQueue) Stats() (done, failed uint64) {
	return q.done.Load(), q.failed.Load()
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.quitOnce.Do(func() { close(q.quit) })
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		d, f := q.Stats()
		q.logger.Info("queue drained, shutdown complete", "done", d, "failed", f)
	}
}

var _ async.Queue = (*ProcessorQueue)(nil)

