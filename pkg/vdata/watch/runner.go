package watch

import (
	"context"
	"log/slog"
)

// RunFunc performs one export. trigger names what requested it.
type RunFunc func(ctx context.Context, trigger string) error

// Runner serializes export runs requested by the file watcher and the
// scheduler. Requests that arrive while a run is in progress coalesce into a
// single follow-up run.
type Runner struct {
	run     RunFunc
	logger  *slog.Logger
	pending chan string
}

// NewRunner creates a runner for fn.
func NewRunner(fn RunFunc, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		run:     fn,
		logger:  logger.With("component", "watch.runner"),
		pending: make(chan string, 1),
	}
}

// Request asks for a run. It never blocks.
func (r *Runner) Request(trigger string) {
	select {
	case r.pending <- trigger:
	default:
		r.logger.Debug("run already pending", "trigger", trigger)
	}
}

// Loop executes requested runs until ctx is cancelled. Run failures are
// logged and do not stop the loop.
func (r *Runner) Loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trigger := <-r.pending:
			if err := r.run(ctx, trigger); err != nil {
				if ctx.Err() != nil {
					return
				}
				r.logger.Error("export run failed", "trigger", trigger, "error", err)
			}
		}
	}
}
