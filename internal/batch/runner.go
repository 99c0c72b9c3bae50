// Package batch runs several independent analysis calls concurrently.
// Each job owns its own request/response lifecycle; the per-call endpoint
// loop stays strictly sequential, only distinct documents run in parallel.
package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"med-mcp/internal/analysis"
)

// Job is one document to analyze.
type Job struct {
	ID           string // generated when empty
	DocumentText string
	Mode         analysis.Mode
}

// Outcome pairs a job with its always-well-formed result.
type Outcome struct {
	JobID  string
	Result *analysis.Result
}

// RunnerConfig holds configuration for the batch runner.
type RunnerConfig struct {
	WorkerCount   int // number of worker goroutines (default: 4)
	QueueCapacity int // job queue capacity (default: 64)
}

// DefaultRunnerConfig returns default configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:   4,
		QueueCapacity: 64,
	}
}

// RunnerMetrics holds metrics for monitoring.
type RunnerMetrics struct {
	QueueLength    int64
	ProcessedCount int64
	ErrorCount     int64
}

// Analyzer is the analysis boundary, satisfied by *analysis.Client.
type Analyzer interface {
	Analyze(ctx context.Context, documentText string, mode analysis.Mode) (*analysis.Result, error)
}

// Runner manages a fixed number of workers that feed documents through an
// Analyzer and deliver one Outcome per submitted job.
type Runner struct {
	config   RunnerConfig
	analyzer Analyzer
	jobChan  chan *Job
	results  chan *Outcome
	stopChan chan struct{}
	wg       sync.WaitGroup
	logger   *logrus.Entry

	queueLength    atomic.Int64
	processedCount atomic.Int64
	errorCount     atomic.Int64

	running atomic.Bool
}

// NewRunner creates a batch runner with the given configuration.
func NewRunner(config RunnerConfig, analyzer Analyzer, logger *logrus.Entry) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.QueueCapacity <= 0 {
		config.QueueCapacity = DefaultRunnerConfig().QueueCapacity
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Runner{
		config:   config,
		analyzer: analyzer,
		jobChan:  make(chan *Job, config.QueueCapacity),
		results:  make(chan *Outcome, config.QueueCapacity),
		stopChan: make(chan struct{}),
		logger:   logger.WithField("component", "batch_runner"),
	}
}

// Start launches the worker goroutines.
func (r *Runner) Start(ctx context.Context) {
	if r.running.Swap(true) {
		r.logger.Warn("Batch runner already running")
		return
	}

	r.logger.WithFields(logrus.Fields{
		"worker_count":   r.config.WorkerCount,
		"queue_capacity": r.config.QueueCapacity,
	}).Info("Starting batch runner")

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(ctx, i)
	}
}

// Submit queues a job. When the queue is full the job is analyzed
// synchronously so a submission is never dropped while running.
func (r *Runner) Submit(ctx context.Context, job *Job) bool {
	if !r.running.Load() {
		r.logger.Warn("Cannot submit job: batch runner not running")
		return false
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	select {
	case r.jobChan <- job:
		r.queueLength.Add(1)
		return true
	default:
		r.logger.WithField("job_id", job.ID).Warn("Job queue full, analyzing synchronously")
		r.process(ctx, job, r.logger)
		return true
	}
}

// Results returns the channel outcomes are delivered on. It is closed by
// Stop after all accepted jobs have been processed.
func (r *Runner) Results() <-chan *Outcome {
	return r.results
}

// Stop gracefully shuts down the runner: workers finish, remaining queued
// jobs are drained, and the results channel is closed.
func (r *Runner) Stop(ctx context.Context) {
	if !r.running.Swap(false) {
		r.logger.Warn("Batch runner already stopped")
		return
	}

	close(r.stopChan)
	r.wg.Wait()

	// Drain jobs that were queued but never picked up.
	for {
		select {
		case job := <-r.jobChan:
			r.queueLength.Add(-1)
			r.process(ctx, job, r.logger)
		default:
			close(r.results)
			r.logger.WithFields(logrus.Fields{
				"processed": r.processedCount.Load(),
				"errors":    r.errorCount.Load(),
			}).Info("Batch runner stopped")
			return
		}
	}
}

// GetMetrics returns a current metrics snapshot.
func (r *Runner) GetMetrics() RunnerMetrics {
	return RunnerMetrics{
		QueueLength:    r.queueLength.Load(),
		ProcessedCount: r.processedCount.Load(),
		ErrorCount:     r.errorCount.Load(),
	}
}

// IsRunning returns whether the runner is accepting jobs.
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// worker is the main loop for each worker goroutine.
func (r *Runner) worker(ctx context.Context, id int) {
	defer r.wg.Done()

	logger := r.logger.WithField("worker_id", id)
	logger.Debug("Worker started")

	for {
		select {
		case <-r.stopChan:
			logger.Debug("Worker received stop signal")
			return
		case job, ok := <-r.jobChan:
			if !ok {
				return
			}
			r.queueLength.Add(-1)
			r.process(ctx, job, logger)
		}
	}
}

// process runs one job and delivers its outcome. Analyze never panics and
// always returns a well-formed result, so there is no retry layer here: a
// failed analysis is itself a deliverable outcome.
func (r *Runner) process(ctx context.Context, job *Job, logger *logrus.Entry) {
	result, err := r.analyzer.Analyze(ctx, job.DocumentText, job.Mode)
	r.processedCount.Add(1)
	if err != nil {
		r.errorCount.Add(1)
		logger.WithFields(logrus.Fields{
			"job_id": job.ID,
			"error":  err,
		}).Warn("Analysis job failed")
	}
	r.results <- &Outcome{JobID: job.ID, Result: result}
}
