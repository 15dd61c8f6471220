package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/couchcryptid/air-quality-dashboard/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Loaded is a decoded dataset together with its coercion stats.
type Loaded struct {
	Dataset domain.Dataset
	Stats   Stats
	Source  string
}

// LoadFile decodes path according to its extension (.csv or .xlsx).
func LoadFile(path string) (domain.Dataset, Stats, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, newStats(), fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return DecodeCSV(f)
	case ".xlsx":
		return DecodeXLSX(path)
	default:
		return nil, newStats(), fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// Loader reads datasets from disk and memoizes them, one entry per file. A
// file is re-read only when its size or modification time changes, and the
// new dataset replaces the old one. Concurrent loads of the same version
// share one read.
type Loader struct {
	cache   *lru.Cache[string, cachedDataset]
	group   singleflight.Group
	logger  *slog.Logger
	metrics *observability.Metrics
}

type cachedDataset struct {
	version string
	loaded  *Loaded
}

// NewLoader creates a Loader holding at most cacheSize files.
func NewLoader(cacheSize int, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	cache, err := lru.New[string, cachedDataset](max(cacheSize, 1))
	if err != nil {
		panic(err)
	}
	return &Loader{
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// Load returns the dataset at path, from cache when the file is unchanged.
// Failed loads are never cached.
func (l *Loader) Load(ctx context.Context, path string) (*Loaded, error) {
	abs, version, err := sourceVersion(path)
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return nil, err
	}
	if c, ok := l.cache.Get(abs); ok && c.version == version {
		l.metrics.DatasetCache.WithLabelValues("hit").Inc()
		return c.loaded, nil
	}
	l.metrics.DatasetCache.WithLabelValues("miss").Inc()

	ch := l.group.DoChan(abs+"|"+version, func() (any, error) {
		return l.read(abs, version)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Loaded), nil
	}
}

func (l *Loader) read(path, version string) (*Loaded, error) {
	start := time.Now()
	ds, stats, err := LoadFile(path)
	l.metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("error").Inc()
		l.logger.Error("dataset load failed", "path", path, "error", err)
		return nil, err
	}

	ld := &Loaded{Dataset: ds, Stats: stats, Source: path}
	l.cache.Add(path, cachedDataset{version: version, loaded: ld})
	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.DatasetRows.Set(float64(stats.Rows))
	l.logger.Info("dataset loaded",
		"path", path,
		"rows", stats.Rows,
		"missing", stats.Missing,
		"invalid", stats.Invalid,
		"duration", time.Since(start),
	)
	return ld, nil
}

// sourceVersion resolves path and identifies the file's current contents by
// size and modification time.
func sourceVersion(path string) (abs, version string, err error) {
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolve dataset path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", "", fmt.Errorf("stat dataset: %w", err)
	}
	return abs, fmt.Sprintf("%d|%d", info.Size(), info.ModTime().UnixNano()), nil
}
