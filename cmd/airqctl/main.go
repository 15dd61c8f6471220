// Command airqctl computes WHO air quality reports from the command line.
//
// Usage:
//
//	airqctl summary --years 2019,2020 --region "European Region" --pollutant pm25
//	airqctl export --pollutant no2 --out summary.csv
//	airqctl validate --dataset data/processed.csv
//	airqctl publish --years 2021 --pollutant pm10
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
