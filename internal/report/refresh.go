package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Warmer reloads a dataset into cache.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Refresher periodically warms the dataset cache so a replaced source file is
// picked up without waiting for a request.
type Refresher struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewRefresher schedules w.Warm on the cron spec (e.g. "@every 10m").
func NewRefresher(ctx context.Context, spec string, w Warmer, logger *slog.Logger) (*Refresher, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := w.Warm(ctx); err != nil {
			logger.Error("scheduled dataset refresh failed", "error", err)
			return
		}
		logger.Debug("scheduled dataset refresh complete")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return &Refresher{cron: c, logger: logger}, nil
}

// Start runs the schedule in the background.
func (r *Refresher) Start() {
	r.logger.Info("dataset refresh scheduled", "entries", len(r.cron.Entries()))
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
