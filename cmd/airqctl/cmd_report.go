package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/couchcryptid/air-quality-dashboard/internal/report"
	"github.com/spf13/cobra"
)

func runSummary(cmd *cobra.Command, _ []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	r, err := newService().Build(cmd.Context(), q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return printSummary(out, r)
}

func printSummary(out io.Writer, r domain.Report) error {
	p := r.Pollutant.ID
	agg := r.Aggregate

	fmt.Fprintf(out, "%s  •  %s  •  %s\n", r.Pollutant.Label, r.Selection.Region, yearsLabel(r.Selection.Years))
	fmt.Fprintf(out, "WHO annual guideline ≤ %.0f µg/m³, %d rows\n\n", r.Pollutant.Guideline, r.Rows)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Annual mean\t%s\t%s\n", domain.FormatConcentration(agg.CentralTendency), r.CentralTier)
	fmt.Fprintf(tw, "%% exceeding WHO\t%s\t%s\n", domain.FormatPercent(agg.PctExceeding), r.Exceedance)
	fmt.Fprintf(tw, "Worst performer\t%s\t%s\n", extremeLabel(agg.Worst), domain.FormatRatio(agg.MaxValue, p))
	fmt.Fprintf(tw, "Best performer\t%s\t%s\n", extremeLabel(agg.Best), r.BestTier)
	fmt.Fprintf(tw, "Worst case\t%s\t\n", domain.FormatConcentration(agg.MaxValue))
	fmt.Fprintf(tw, "Best case\t%s\t\n", domain.FormatConcentration(agg.MinValue))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Trend) > 0 {
		fmt.Fprintln(out, "\nTrend")
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, pt := range r.Trend {
			fmt.Fprintf(tw, "  %d\t%s\t%s\n", pt.Year, domain.FormatConcentration(pt.Value), pt.Tier)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	printRanking(out, "Highest", r.Highest)
	printRanking(out, "Lowest", r.Lowest)
	return nil
}

func printRanking(out io.Writer, title string, rows []domain.CountrySummary) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", title)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, c := range rows {
		fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\n", i+1, c.ISO3, domain.FormatConcentration(c.Value), c.Tier)
	}
	_ = tw.Flush()
}

func extremeLabel(e *domain.Extreme) string {
	if e == nil {
		return domain.NoValue
	}
	return fmt.Sprintf("%s (%d) %s", e.ISO3, e.Year, domain.FormatConcentration(&e.Value))
}

func yearsLabel(ys []int) string {
	switch len(ys) {
	case 0:
		return "no years"
	case 1:
		return strconv.Itoa(ys[0])
	default:
		return fmt.Sprintf("%d–%d (%d years)", ys[0], ys[len(ys)-1], len(ys))
	}
}

func runExport(cmd *cobra.Command, _ []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	svc := newService()

	if outPath == "" {
		return svc.Export(cmd.Context(), q, cmd.OutOrStdout())
	}

	r, err := svc.Build(cmd.Context(), q)
	if err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer closeQuietly(f)

	if err := report.WriteCSV(f, r); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d countries to %s\n", len(r.Countries), outPath)
	return f.Close()
}
