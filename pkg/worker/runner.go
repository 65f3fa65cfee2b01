package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/pkg/logger"
)

// Worker interface that background workers should implement
type Worker interface {
	// Name returns worker name for logging
	Name() string
	// Run executes one iteration of work
	Run(ctx context.Context) error
}

// Observer is notified after every iteration, e.g. to record metrics
type Observer func(worker string, duration time.Duration, err error)

// PeriodicWorker wraps a Worker with periodic execution
type PeriodicWorker struct {
	worker   Worker
	interval time.Duration
	observer Observer
	wg       *sync.WaitGroup
	name     string
}

// NewPeriodicWorker creates new periodic worker; observer may be nil
func NewPeriodicWorker(worker Worker, interval time.Duration, observer Observer) *PeriodicWorker {
	return &PeriodicWorker{
		worker:   worker,
		interval: interval,
		observer: observer,
		wg:       &sync.WaitGroup{},
		name:     worker.Name(),
	}
}

// Start starts the worker with graceful shutdown support
func (pw *PeriodicWorker) Start(ctx context.Context) {
	pw.wg.Add(1)
	go pw.run(ctx)
}

// Stop waits for graceful shutdown; false means the timeout was hit
func (pw *PeriodicWorker) Stop(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		pw.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("worker stopped gracefully",
			zap.String("worker", pw.name),
		)
		return true
	case <-time.After(timeout):
		logger.Warn("worker stop timeout",
			zap.String("worker", pw.name),
		)
		return false
	}
}

// run executes worker periodically
func (pw *PeriodicWorker) run(ctx context.Context) {
	defer pw.wg.Done()

	logger.Info("worker started",
		zap.String("worker", pw.name),
		zap.Duration("interval", pw.interval),
	)

	// Run immediately on start
	pw.execute(ctx)

	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopping",
				zap.String("worker", pw.name),
			)
			return

		case <-ticker.C:
			// Continue despite error - don't crash worker
			pw.execute(ctx)
		}
	}
}

func (pw *PeriodicWorker) execute(ctx context.Context) {
	start := time.Now()
	err := pw.worker.Run(ctx)
	if err != nil {
		logger.Error("worker execution failed",
			zap.String("worker", pw.name),
			zap.Error(err),
		)
	}

	if pw.observer != nil {
		pw.observer(pw.name, time.Since(start), err)
	}
}

// WorkerGroup manages multiple workers with graceful shutdown
type WorkerGroup struct {
	workers  []*PeriodicWorker
	observer Observer
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
}

// NewWorkerGroup creates new worker group; observer is shared by all workers
func NewWorkerGroup(ctx context.Context, observer Observer) *WorkerGroup {
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerGroup{
		workers:  make([]*PeriodicWorker, 0),
		observer: observer,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Add adds worker to group
func (wg *WorkerGroup) Add(worker Worker, interval time.Duration) {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	pw := NewPeriodicWorker(worker, interval, wg.observer)
	wg.workers = append(wg.workers, pw)
}

// Start starts all workers
func (wg *WorkerGroup) Start() {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	for _, worker := range wg.workers {
		worker.Start(wg.ctx)
	}

	logger.Info("worker group started",
		zap.Int("workers", len(wg.workers)),
	)
}

// Stop stops all workers gracefully
func (wg *WorkerGroup) Stop(timeout time.Duration) {
	logger.Info("stopping worker group",
		zap.Int("workers", len(wg.workers)),
	)

	// Cancel context first
	wg.cancel()

	// Wait for all workers with timeout
	wg.mu.Lock()
	defer wg.mu.Unlock()

	for _, worker := range wg.workers {
		worker.Stop(timeout)
	}

	logger.Info("worker group stopped")
}
