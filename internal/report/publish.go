package report

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// SummaryLoader writes country summary events to a destination.
type SummaryLoader interface {
	LoadBatch(ctx context.Context, events []domain.CountrySummaryEvent) error
}

// publishRetries is how many times a failed write is retried.
const publishRetries = 3

// Publish builds the report for q and writes one event per country to sink,
// retrying failed writes up to publishRetries times with exponential backoff. Returns the number of
// events written.
func (s *Service) Publish(ctx context.Context, q Query, sink SummaryLoader) (int, error) {
	r, err := s.Build(ctx, q)
	if err != nil {
		return 0, err
	}
	events := domain.SummaryEvents(r)
	if len(events) == 0 {
		return 0, nil
	}

	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for attempt := 1; ; attempt++ {
		err = sink.LoadBatch(ctx, events)
		if err == nil {
			break
		}
		if attempt > publishRetries || ctx.Err() != nil {
			return 0, fmt.Errorf("publish %d summaries: %w", len(events), err)
		}
		s.logger.Warn("publish summaries failed, retrying",
			"error", err, "attempt", attempt, "backoff", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return 0, ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}

	s.metrics.SummariesPublished.Add(float64(len(events)))
	s.logger.Info("summaries published",
		"count", len(events),
		"pollutant", r.Pollutant.ID,
		"years", r.Selection.Years,
		"region", r.Selection.Region,
	)
	return len(events), nil
}
