package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/couchcryptid/air-quality-dashboard/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(size int) (*Loader, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(size, logger, m), m
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_CachesUnchangedSource(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "data.csv", sampleCSV)
	l, m := testLoader(4)

	first, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	second, err := l.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, first.Dataset, 3)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DatasetCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DatasetCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DatasetLoads.WithLabelValues("success")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.DatasetRows), 0)
}

func TestLoader_ReloadsChangedSource(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", sampleCSV)
	l, _ := testLoader(4)

	first, err := l.Load(context.Background(), path)
	require.NoError(t, err)

	extra := "Region of the Americas,CHL,Chile,2020,22,45,12,19000000\n"
	writeCSV(t, dir, "data.csv", sampleCSV+extra)

	second, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Dataset, 4)
	assert.Equal(t, 1, l.cache.Len(), "the new version replaces the old one")

	third, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, second, third)
}

func TestLoader_EvictsLeastRecentlyUsedFile(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", sampleCSV)
	b := writeCSV(t, dir, "b.csv", sampleCSV)
	c := writeCSV(t, dir, "c.csv", sampleCSV)
	l, m := testLoader(2)

	for _, p := range []string{a, b, a, c} {
		_, err := l.Load(context.Background(), p)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, l.cache.Len())

	_, err := l.Load(context.Background(), b)
	require.NoError(t, err)
	assert.InDelta(t, 4, testutil.ToFloat64(m.DatasetCache.WithLabelValues("miss")), 0, "b was evicted")
	assert.InDelta(t, 1, testutil.ToFloat64(m.DatasetCache.WithLabelValues("hit")), 0)
}

func TestNewLoader_MinimumSize(t *testing.T) {
	l, _ := testLoader(0)
	path := writeCSV(t, t.TempDir(), "data.csv", sampleCSV)

	_, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, l.cache.Len())
}

func TestLoader_FailuresAreNotCached(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", "who_region,iso3\nEuropean Region,FIN\n")
	l, m := testLoader(4)

	_, err := l.Load(context.Background(), path)
	require.ErrorIs(t, err, domain.ErrMissingColumns)
	assert.Zero(t, l.cache.Len())
	assert.InDelta(t, 1, testutil.ToFloat64(m.DatasetLoads.WithLabelValues("error")), 0)

	writeCSV(t, dir, "data.csv", sampleCSV)
	ld, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, ld.Dataset, 3)
}

func TestLoader_MissingFile(t *testing.T) {
	l, _ := testLoader(4)
	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat dataset")
}

func TestLoader_CanceledContext(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "data.csv", sampleCSV)
	l, _ := testLoader(4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Either the read wins the race or the cancellation does; both are valid,
	// but a cancellation must surface as context.Canceled.
	if _, err := l.Load(ctx, path); err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestLoader_ConcurrentLoadsShareResult(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "data.csv", sampleCSV)
	l, _ := testLoader(4)

	const n = 8
	results := make([]*Loaded, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ld, err := l.Load(context.Background(), path)
			assert.NoError(t, err)
			results[i] = ld
		}()
	}
	wg.Wait()

	for _, ld := range results {
		require.NotNil(t, ld)
		assert.Len(t, ld.Dataset, 3)
	}
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "data.json", "{}")
	_, _, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported dataset format ".json"`)
}

func TestLoadFile_XLSX(t *testing.T) {
	path := writeXLSX(t, [][]string{
		domain.RequiredColumns,
		{"European Region", "FIN", "Finland", "2019", "4", "10", "6"},
	})

	ds, _, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, ds, 1)
}
