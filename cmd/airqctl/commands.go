package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"github.com/couchcryptid/air-quality-dashboard/internal/config"
	"github.com/couchcryptid/air-quality-dashboard/internal/dataset"
	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/couchcryptid/air-quality-dashboard/internal/observability"
	"github.com/couchcryptid/air-quality-dashboard/internal/report"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	datasetPath string
	verbose     bool
	years       []int
	region      string
	pollutant   string
	asJSON      bool
	outPath     string

	cfg    *config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:           "airqctl",
		Short:         "Summarize WHO ambient air quality data",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if datasetPath != "" {
				cfg.DatasetPath = datasetPath
			}
			logger = slog.New(slog.DiscardHandler)
			if verbose {
				logger = sharedobs.NewLogger("debug", "text")
			}
			return nil
		},
	}

	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Print KPIs, trend, and rankings for a selection",
		Args:  cobra.NoArgs,
		RunE:  runSummary, // Defined in cmd_report.go
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the country summary table as CSV",
		Args:  cobra.NoArgs,
		RunE:  runExport, // Defined in cmd_report.go
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Check required columns and report value coercions",
		Args:  cobra.NoArgs,
		RunE:  runValidate, // Defined in cmd_validate.go
	}

	publishCmd = &cobra.Command{
		Use:   "publish",
		Short: "Publish country summaries to the Kafka summary topic",
		Args:  cobra.NoArgs,
		RunE:  runPublish, // Defined in cmd_publish.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "dataset CSV or XLSX path (default $DATASET_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stdout")

	for _, c := range []*cobra.Command{summaryCmd, exportCmd, publishCmd} {
		c.Flags().IntSliceVar(&years, "years", nil, "years to include, comma separated (default all years)")
		c.Flags().StringVar(&region, "region", domain.GlobalRegion, "WHO region, or Global for all regions")
		c.Flags().StringVarP(&pollutant, "pollutant", "p", string(domain.PM25), "pollutant: pm25, pm10, or no2")
	}
	summaryCmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(summaryCmd, exportCmd, validateCmd, publishCmd)
}

// newService wires a report service over the configured dataset.
func newService() *report.Service {
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	loader := dataset.NewLoader(1, logger, metrics)
	return report.New(loader, cfg.DatasetPath, cfg.RankingSize, logger, metrics)
}

// queryFromFlags builds a report query. Without --years every year is selected.
func queryFromFlags(cmd *cobra.Command) (report.Query, error) {
	p, err := domain.ParsePollutant(pollutant)
	if err != nil {
		return report.Query{}, err
	}
	return report.Query{
		Years:     years,
		AllYears:  !cmd.Flags().Changed("years"),
		Region:    region,
		Pollutant: p,
	}, nil
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
