package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/couchcryptid/air-quality-dashboard/internal/dataset"
	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

// errValidationFailed makes the command exit non-zero after the report is printed.
var errValidationFailed = errors.New("validation failed")

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Dataset Validation: %s ===\n\n", cfg.DatasetPath)

	ds, stats, err := dataset.LoadFile(cfg.DatasetPath)
	if err != nil {
		var mce *domain.MissingColumnsError
		if errors.As(err, &mce) {
			fmt.Fprintf(out, "  %-28s FAIL\n", "required columns")
			for _, c := range mce.Columns {
				fmt.Fprintf(out, "    missing: %s\n", c)
			}
		} else {
			fmt.Fprintf(out, "  %-28s FAIL\n    %v\n", "decode", err)
		}
		fmt.Fprintln(out, "\nValidation FAILED.")
		return errValidationFailed
	}

	fmt.Fprintf(out, "  %-28s PASS\n", "required columns")
	fmt.Fprintf(out, "  %-28s %d\n", "rows", stats.Rows)
	if lo, hi, ok := ds.YearRange(); ok {
		fmt.Fprintf(out, "  %-28s %d–%d\n", "years", lo, hi)
	}
	fmt.Fprintf(out, "  %-28s %d\n", "regions", len(ds.Regions())-1)

	fmt.Fprintln(out)
	for _, p := range domain.AllPollutants() {
		col := p.Column()
		fmt.Fprintf(out, "  %-28s missing %d, invalid %d\n", col, stats.Missing[col], stats.Invalid[col])
	}

	if len(ds) == 0 {
		fmt.Fprintln(out, "\nValidation FAILED: dataset has no rows.")
		return errValidationFailed
	}
	if slices.ContainsFunc(domain.AllPollutants(), func(p domain.Pollutant) bool {
		return stats.Missing[p.Column()]+stats.Invalid[p.Column()] == stats.Rows
	}) {
		fmt.Fprintln(out, "\nWarning: at least one pollutant has no usable values.")
	}

	fmt.Fprintln(out, "\nAll validations passed.")
	return nil
}
