// Package dataset loads WHO ambient air quality tables from CSV and XLSX
// sources and memoizes them by source identity.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/jszwec/csvutil"
)

// Stats describes how source values were coerced while decoding.
type Stats struct {
	Rows int `json:"rows"`
	// Missing counts empty pollutant cells per column.
	Missing map[string]int `json:"missing"`
	// Invalid counts non-empty pollutant cells that could not be used as a
	// concentration (text, NaN, infinities, negatives) and were set to null.
	Invalid map[string]int `json:"invalid"`
}

func newStats() Stats {
	return Stats{Missing: make(map[string]int), Invalid: make(map[string]int)}
}

// rawObservation is one source row before type coercion. Columns beyond the
// required set are ignored.
type rawObservation struct {
	WHORegion   string `csv:"who_region"`
	ISO3        string `csv:"iso3"`
	CountryName string `csv:"country_name"`
	Year        string `csv:"year"`
	PM25        string `csv:"pm25_concentration"`
	PM10        string `csv:"pm10_concentration"`
	NO2         string `csv:"no2_concentration"`
}

// recordReader is the row source csvutil decodes from. *csv.Reader satisfies it.
type recordReader interface {
	Read() ([]string, error)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeCSV reads a CSV table with a header row. Returns a
// *domain.MissingColumnsError if any required column is absent.
func DecodeCSV(r io.Reader) (domain.Dataset, Stats, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && string(b) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return decodeRecords(cr)
}

// decodeRecords reads the header from rr, checks required columns and decodes
// the remaining rows. Line numbers in errors count the header as line 1.
func decodeRecords(rr recordReader) (domain.Dataset, Stats, error) {
	stats := newStats()

	header, err := rr.Read()
	if errors.Is(err, io.EOF) {
		return nil, stats, &domain.MissingColumnsError{Columns: domain.RequiredColumns}
	}
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	header = normalizeHeader(header)
	if err := domain.CheckColumns(header); err != nil {
		return nil, stats, err
	}

	dec, err := csvutil.NewDecoder(&paddedReader{r: rr, width: len(header)}, header...)
	if err != nil {
		return nil, stats, fmt.Errorf("create decoder: %w", err)
	}

	var ds domain.Dataset
	for line := 2; ; line++ {
		var raw rawObservation
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, stats, fmt.Errorf("line %d: %w", line, err)
		}

		obs, err := toObservation(raw, &stats)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", line, err)
		}
		ds = append(ds, obs)
		stats.Rows++
	}
	return ds, stats, nil
}

// paddedReader pads or truncates every record to the header width, so a row
// missing its trailing cells decodes those cells as empty.
type paddedReader struct {
	r     recordReader
	width int
}

func (p *paddedReader) Read() ([]string, error) {
	rec, err := p.r.Read()
	if err != nil || len(rec) == p.width {
		return rec, err
	}
	out := make([]string, p.width)
	copy(out, rec)
	return out, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, string(utf8BOM))))
	}
	return out
}

func toObservation(raw rawObservation, stats *Stats) (domain.Observation, error) {
	year, err := parseYear(raw.Year)
	if err != nil {
		return domain.Observation{}, err
	}
	return domain.Observation{
		CountryName: strings.TrimSpace(raw.CountryName),
		ISO3:        strings.ToUpper(strings.TrimSpace(raw.ISO3)),
		WHORegion:   strings.TrimSpace(raw.WHORegion),
		Year:        year,
		PM25:        parseConcentration(raw.PM25, domain.PM25.Column(), stats),
		PM10:        parseConcentration(raw.PM10, domain.PM10.Column(), stats),
		NO2:         parseConcentration(raw.NO2, domain.NO2.Column(), stats),
	}, nil
}

// parseYear accepts integers and integral floats such as "2019.0", which
// spreadsheet exports commonly produce.
func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(f), nil
}

// parseConcentration returns nil for empty or unusable values. Nothing here is
// an error: gaps in WHO reporting are expected.
func parseConcentration(s, column string, stats *Stats) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		stats.Missing[column]++
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		stats.Invalid[column]++
		return nil
	}
	return &v
}
