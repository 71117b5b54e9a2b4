//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("quake-etl-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	brokers, err := ctr.Brokers(ctx)
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

// writeAgencyWorkbook writes a workbook with two title rows above the header.
func writeAgencyWorkbook(t *testing.T) string {
	t.Helper()
	rows := [][]string{
		{"국내 지진 발생 목록"},
		{"조회기간", "2016-01-01 ~ 2020-12-31"},
		{"번호", "발생시각", "규모", "위도", "경도", "위치"},
		{"1", "2016-09-12 20:32:54", "5.8", "35.77", "129.19", "경북 경주시 남남서쪽 8km"},
		{"2", "2017-11-15 14:29:31", "5.4", "36.11", "129.37", "경북 포항시 북구 북쪽 8km"},
		{"3", "2018-02-11 05:03:03", "4.6", "36.08", "129.33", "경북 포항시 북구 북서쪽 5km"},
		{"4", "2019-04-19 11:16:44", "4.3", "37.88", "129.54", "강원 동해시 북동쪽 54km 해역"},
		{"5", "2020-01-30 05:30:51", "3.2", "37.23", "127.61", "경기 여주시 서쪽 4km"},
		{"6", "미상", "-", "", "", "경북 포항시 남구"},
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, data := range rows {
		row := sheet.AddRow()
		for _, v := range data {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "earthquakes.xlsx")
	require.NoError(t, f.Save(path))
	return path
}
