package task

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrShutdownTimeout is returned when supervised tasks do not finish within
// the shutdown grace period.
var ErrShutdownTimeout = errors.New("supervised tasks did not stop within grace period")

// RunFunc is a long-running supervised task. It must return promptly once
// ctx is cancelled; an in-flight unit of work may be finished first.
type RunFunc func(ctx context.Context) error

// Supervisor runs named background tasks (the pipeline consumers) and
// coordinates their shutdown. Each task gets the supervisor's context;
// Stop cancels it and waits up to a bounded grace period.
type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger

	mu      sync.Mutex
	stopped bool
}

// NewSupervisor creates a Supervisor ready to accept tasks.
func NewSupervisor(logger *slog.Logger) *Supervisor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("component", "supervisor"),
	}
}

// Go starts a named task in its own goroutine. A task returning a non-nil
// error before shutdown is a defect in a long-running consumer and is
// logged at error level; the other tasks keep running.
func (s *Supervisor) Go(name string, run RunFunc) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.logger.Error("task submitted after shutdown", "task", name)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		s.logger.Info("supervised task started", "task", name)
		err := run(s.ctx)

		if err != nil && s.ctx.Err() == nil {
			s.logger.Error("supervised task exited unexpectedly",
				"task", name,
				"error", err)
			return
		}
		s.logger.Info("supervised task stopped", "task", name)
	}()
}

// Stop cancels all supervised tasks and waits up to grace for them to
// finish. In-flight handlers are given the chance to complete; tasks that
// outlive the grace period are abandoned and ErrShutdownTimeout is returned.
func (s *Supervisor) Stop(grace time.Duration) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("all supervised tasks stopped")
		return nil
	case <-time.After(grace):
		s.logger.Error("shutdown grace period elapsed", "grace", grace)
		return ErrShutdownTimeout
	}
}
