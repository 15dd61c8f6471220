//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/air-quality-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/air-quality-dashboard/internal/config"
	"github.com/couchcryptid/air-quality-dashboard/internal/dataset"
	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/couchcryptid/air-quality-dashboard/internal/observability"
	"github.com/couchcryptid/air-quality-dashboard/internal/report"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testSummaryTopic = "test-country-summaries"

const testCSV = `who_region,iso3,country_name,year,pm25_concentration,pm10_concentration,no2_concentration
South-East Asia Region,IND,India,2019,50,100,25
European Region,FIN,Finland,2019,4,10,
European Region,POL,Poland,2019,20,28,15
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("air-quality-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestPublishCountrySummaries loads a CSV through the dataset loader, builds
// a report, and reads the published summaries back from Kafka.
func TestPublishCountrySummaries(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSummaryTopic)

	path := filepath.Join(t.TempDir(), "processed.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaSummaryTopic: testSummaryTopic,
	}
	metrics := observability.NewMetricsForTesting()
	loader := dataset.NewLoader(2, discardLogger(), metrics)
	svc := report.New(loader, path, 10, discardLogger(), metrics)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	n, err := svc.Publish(ctx, report.Query{Years: []int{2019}, Pollutant: domain.PM25}, writer)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testSummaryTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := make(map[string]domain.CountrySummaryEvent)
	headers := make(map[string]map[string]string)
	for range n {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from summary topic")

		var event domain.CountrySummaryEvent
		require.NoError(t, json.Unmarshal(msg.Value, &event))
		got[string(msg.Key)] = event

		h := make(map[string]string, len(msg.Headers))
		for _, hdr := range msg.Headers {
			h[hdr.Key] = string(hdr.Value)
		}
		headers[string(msg.Key)] = h
	}

	require.Contains(t, got, "IND")
	assert.Equal(t, domain.TierVeryHigh, got["IND"].Tier)
	require.NotNil(t, got["IND"].Ratio)
	assert.InDelta(t, 10.0, *got["IND"].Ratio, 1e-9)
	assert.Equal(t, "pm25", headers["IND"]["pollutant"])

	require.Contains(t, got, "FIN")
	assert.Equal(t, domain.TierSafe, got["FIN"].Tier)

	require.Contains(t, got, "POL")
	assert.Equal(t, domain.TierHigh, got["POL"].Tier)
	assert.Equal(t, []int{2019}, got["POL"].Years)
	assert.Equal(t, domain.GlobalRegion, got["POL"].Region)
}
