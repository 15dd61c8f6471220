// Package report serves air quality reports computed over the configured
// dataset, keeping the dataset warm and publishing country summaries.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/air-quality-dashboard/internal/dataset"
	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/couchcryptid/air-quality-dashboard/internal/observability"
)

// DatasetSource returns the decoded dataset stored at path.
type DatasetSource interface {
	Load(ctx context.Context, path string) (*dataset.Loaded, error)
}

// Query selects the rows and pollutant of a report. When AllYears is set the
// selection covers every year present in the dataset and Years is ignored.
type Query struct {
	Years     []int
	AllYears  bool
	Region    string
	Pollutant domain.Pollutant
}

// Options lists the filter choices the loaded dataset supports.
type Options struct {
	Years      []int                  `json:"years"`
	MinYear    int                    `json:"min_year"`
	MaxYear    int                    `json:"max_year"`
	Regions    []string               `json:"regions"`
	Pollutants []domain.PollutantInfo `json:"pollutants"`
	Rows       int                    `json:"rows"`
	Stats      dataset.Stats          `json:"stats"`
}

// Service computes reports over the dataset at a fixed path.
type Service struct {
	source   DatasetSource
	path     string
	rankSize int
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Service reading from path through source.
func New(source DatasetSource, path string, rankSize int, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:   source,
		path:     path,
		rankSize: rankSize,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once the dataset has loaded successfully at
// least once, or an error describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Warm loads the dataset so the first request is served from cache.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.dataset(ctx)
	return err
}

func (s *Service) dataset(ctx context.Context) (*dataset.Loaded, error) {
	ld, err := s.source.Load(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", s.path, err)
	}
	s.ready.Store(true)
	return ld, nil
}

// Build computes the report for q.
func (s *Service) Build(ctx context.Context, q Query) (domain.Report, error) {
	ld, err := s.dataset(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	start := time.Now()
	sel := domain.Selection{Years: q.Years, Region: q.Region}
	if q.AllYears {
		sel.Years = ld.Dataset.Years()
	}

	r, err := domain.BuildReport(ld.Dataset, sel, q.Pollutant, s.rankSize)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSelection) {
			s.metrics.InvalidSelections.Inc()
		}
		return domain.Report{}, err
	}

	s.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	s.metrics.ReportsBuilt.WithLabelValues(string(q.Pollutant)).Inc()
	s.logger.Debug("report built",
		"pollutant", q.Pollutant,
		"years", r.Selection.Years,
		"region", r.Selection.Region,
		"rows", r.Rows,
	)
	return r, nil
}

// Options returns the years, regions, and pollutants available for selection.
func (s *Service) Options(ctx context.Context) (Options, error) {
	ld, err := s.dataset(ctx)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Years:   ld.Dataset.Years(),
		Regions: ld.Dataset.Regions(),
		Rows:    len(ld.Dataset),
		Stats:   ld.Stats,
	}
	opts.MinYear, opts.MaxYear, _ = ld.Dataset.YearRange()
	for _, p := range domain.AllPollutants() {
		limit, _ := p.Guideline()
		opts.Pollutants = append(opts.Pollutants, domain.PollutantInfo{
			ID:        p,
			Label:     p.Label(),
			Column:    p.Column(),
			Guideline: limit,
		})
	}
	return opts, nil
}
