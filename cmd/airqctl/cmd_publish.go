package main

import (
	"errors"
	"fmt"

	kafkaadapter "github.com/couchcryptid/air-quality-dashboard/internal/adapter/kafka"
	"github.com/spf13/cobra"
)

func runPublish(cmd *cobra.Command, _ []string) error {
	if !cfg.PublishEnabled() {
		return errors.New("KAFKA_BROKERS is not set")
	}
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	writer := kafkaadapter.NewWriter(cfg, logger)
	defer closeQuietly(writer)

	n, err := newService().Publish(cmd.Context(), q, writer)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %d country summaries to %s\n", n, cfg.KafkaSummaryTopic)
	return nil
}
