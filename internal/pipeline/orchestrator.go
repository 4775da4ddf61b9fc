package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/docscan/internal/config"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("job orchestrator stopped")

// Orchestrator runs async search jobs from a bounded queue.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	search  Searcher
	log     *slog.Logger
	cfg     config.Config
	running atomic.Int32

	mu      sync.Mutex // guards stopped and sends on queue
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the job pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, search Searcher, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxJobQueue),
		search: search,
		log:    log,
		cfg:    cfg,
	}
}

// Start launches the job workers and the expiry loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := range o.cfg.JobWorkers {
		o.wg.Add(1)
		go o.runWorker(workerCtx, NewWorker(o.search, o.log.With("job_worker", i)))
	}

	o.wg.Add(1)
	go o.expireJobs(workerCtx)
}

func (o *Orchestrator) runWorker(ctx context.Context, w *Worker) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-o.queue:
			if !ok {
				return
			}
			o.running.Add(1)
			w.Process(ctx, job)
			o.running.Add(-1)
		}
	}
}

func (o *Orchestrator) expireJobs(ctx context.Context) {
	defer o.wg.Done()
	ticker := time.NewTicker(cleanupInterval(o.cfg.JobTTL))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			before := o.jobs.Len()
			o.jobs.Cleanup()
			if n := before - o.jobs.Len(); n > 0 {
				o.log.Debug("expired jobs", "count", n)
			}
		}
	}
}

// Stop cancels running jobs, waits for the workers to exit and fails every
// job that was still queued. Safe to call more than once.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()

	for job := range o.queue {
		job.ReleaseFiles()
		job.AddError("service shutting down")
		job.SetStatus(StatusFailed, "canceled")
	}
}

// Submit queues a job for processing. It never blocks: a full queue fails
// the job and returns ErrQueueFull.
func (o *Orchestrator) Submit(job *Job) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.ReleaseFiles()
		return fmt.Errorf("submit job: %w", ErrStopped)
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.ReleaseFiles()
		job.SetStatus(StatusFailed, "queue_full")
		o.log.Warn("job rejected", "job_id", job.ID, "queue_depth", len(o.queue))
		return fmt.Errorf("submit job: %w (%d)", ErrQueueFull, o.cfg.MaxJobQueue)
	}
}

// GetJob returns a job by ID, or nil once it has expired.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Running returns the number of jobs currently being processed.
func (o *Orchestrator) Running() int {
	return int(o.running.Load())
}

// TrackedJobs returns the number of jobs held in the store.
func (o *Orchestrator) TrackedJobs() int {
	return o.jobs.Len()
}

func cleanupInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, time.Second), 5*time.Minute)
}
