package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gnana997/uidocgen/pkg/docgen"
	"github.com/gnana997/uidocgen/pkg/util"
)

// ErrPoolStopped is returned by Submit once the pool no longer accepts files.
var ErrPoolStopped = errors.New("worker pool is stopped")

// WorkerPool documents files on a fixed set of goroutines.
//
// Results are delivered on a single channel; a file that cannot be
// documented produces a Result with Err set and never stops the pool.
//
//	pool := NewWorkerPool(0, gen, opts, logger)
//	pool.Start(ctx)
//	go func() {
//	    defer pool.Stop()
//	    for _, path := range files {
//	        if err := pool.Submit(path); err != nil {
//	            return
//	        }
//	    }
//	}()
//	for r := range pool.Results() {
//	    ...
//	}
//
// The worker count should not exceed the parser pool size, or workers
// block waiting for parsers.
type WorkerPool struct {
	numWorkers int
	jobs       chan string
	results    chan Result
	wg         sync.WaitGroup
	gen        *docgen.Generator
	opts       Options
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a pool of numWorkers goroutines (0 = auto-detect).
func NewWorkerPool(numWorkers int, gen *docgen.Generator, opts Options, logger *slog.Logger) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan string, numWorkers*2),
		results:    make(chan Result, numWorkers),
		gen:        gen,
		opts:       opts,
		logger:     logger,
	}
}

// Start spawns the workers. They stop when ctx is cancelled or after
// Stop has drained the queue.
func (wp *WorkerPool) Start(ctx context.Context) {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}
	wp.ctx, wp.cancel = context.WithCancel(ctx)

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("worker cancelled", "worker_id", id)
			return
		case path, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.results <- wp.process(path)
		}
	}
}

// process documents one file.
func (wp *WorkerPool) process(path string) Result {
	src, err := wp.read(path)
	if err != nil {
		return wp.fail(path, fmt.Errorf("failed to read file: %w", err))
	}

	records, err := wp.gen.Parse(wp.ctx, src, docgen.Options{
		Filename: path,
		Resolver: wp.opts.Resolver,
		Importer: wp.opts.Importer,
	})
	if err != nil {
		return wp.fail(path, err)
	}

	wp.jobsProcessed.Add(1)
	return Result{Path: path, Docs: records}
}

func (wp *WorkerPool) fail(path string, err error) Result {
	if errors.Is(err, docgen.ErrNoDefinition) {
		wp.logger.Debug("no component in file", "file", path)
	} else {
		wp.logger.Warn("failed to document file", "file", path, "error", err)
	}
	wp.jobsFailed.Add(1)
	return Result{Path: path, Err: err}
}

// read returns a private copy of the file so a concurrent invalidation of
// the cache cannot unmap it mid-parse.
func (wp *WorkerPool) read(path string) ([]byte, error) {
	if wp.opts.Files == nil {
		return os.ReadFile(path)
	}
	data, err := wp.opts.Files.Read(path)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(data), nil
}

// Submit enqueues path. It blocks while the queue is full.
func (wp *WorkerPool) Submit(path string) error {
	if wp.stopped.Load() || wp.jobsClosed.Load() {
		return ErrPoolStopped
	}
	wp.jobsSubmitted.Add(1)

	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- path:
		return nil
	}
}

// Results returns the result channel. It is closed by Stop.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.results
}

// Stop closes the queue, waits for queued files to finish and closes the
// result channel. Safe to call more than once.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()

	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// GetStats returns current worker pool statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
	}
}

// WorkerPoolStats contains statistics about the worker pool.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int
}
