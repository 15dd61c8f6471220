package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
)

// ExportHeader returns the header row of the country summary CSV for p.
func ExportHeader(p domain.Pollutant) []string {
	return []string{"iso3", "country_name", p.Label() + " (µg/m³) — mean", "WHO status"}
}

// WriteCSV writes the country table of r as CSV. Countries without data have
// an empty value and status N/A.
func WriteCSV(w io.Writer, r domain.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader(r.Pollutant.ID)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range r.Countries {
		value := ""
		if c.Value != nil {
			value = strconv.FormatFloat(*c.Value, 'f', 2, 64)
		}
		if err := cw.Write([]string{c.ISO3, c.CountryName, value, c.Tier.String()}); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.ISO3, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export builds the report for q and writes its country table to w.
func (s *Service) Export(ctx context.Context, q Query, w io.Writer) error {
	r, err := s.Build(ctx, q)
	if err != nil {
		return err
	}
	return WriteCSV(w, r)
}

// ExportFilename names the CSV download for r, e.g. "who_pm25_2019-2020_global.csv".
func ExportFilename(r domain.Report) string {
	years := "all"
	if n := len(r.Selection.Years); n == 1 {
		years = strconv.Itoa(r.Selection.Years[0])
	} else if n > 1 {
		years = fmt.Sprintf("%d-%d", r.Selection.Years[0], r.Selection.Years[n-1])
	}
	return fmt.Sprintf("who_%s_%s_%s.csv", r.Pollutant.ID, years, slug(r.Selection.Region))
}

func slug(s string) string {
	out := make([]byte, 0, len(s))
	dash := false
	for _, b := range []byte(s) {
		switch {
		case b >= 'a' && b <= 'z', b >= '0' && b <= '9':
			out = append(out, b)
			dash = false
		case b >= 'A' && b <= 'Z':
			out = append(out, b+'a'-'A')
			dash = false
		case !dash && len(out) > 0:
			out = append(out, '-')
			dash = true
		}
	}
	if len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "global"
	}
	return string(out)
}
