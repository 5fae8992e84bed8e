package sink

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lordthorzonus/oura-api-exporter/internal/exporter"
)

func TestPostgresWriter_WriteBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []exporter.TimeSeriesPoint{
		{
			Measurement: "heart_rate",
			Tags:        map[string]string{"source": "awake", "person_name": "alice"},
			Fields:      map[string]interface{}{"bpm": int64(60)},
			Timestamp:   ts,
		},
		{
			Measurement: "sleep_phase",
			Tags:        map[string]string{"person_name": "alice", "sleep_id": "s1"},
			Fields:      map[string]interface{}{"phase": int64(2)},
			Timestamp:   ts.Add(5 * time.Minute),
		},
	}

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO "oura_timeseries" (measurement, ts, person_name, tags, fields) VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10) ON CONFLICT DO NOTHING`)).
		WithArgs(
			"heart_rate", sqlmock.AnyArg(), "alice", `{"person_name":"alice","source":"awake"}`, `{"bpm":60}`,
			"sleep_phase", sqlmock.AnyArg(), "alice", `{"person_name":"alice","sleep_id":"s1"}`, `{"phase":2}`,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	writer := NewPostgresWriter(db, "", zap.NewNop())
	require.NoError(t, writer.WriteBatch(context.Background(), points))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_WriteBatchError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO").WillReturnError(errors.New("connection refused"))

	writer := NewPostgresWriter(db, "custom", zap.NewNop())
	err = writer.WriteBatch(context.Background(), []exporter.TimeSeriesPoint{{
		Measurement: "readiness",
		Tags:        map[string]string{"person_name": "p"},
		Fields:      map[string]interface{}{"readiness_score": int64(80)},
		Timestamp:   time.Now(),
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "oura_timeseries"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	writer := NewPostgresWriter(db, DefaultTimeSeriesTable, zap.NewNop())
	require.NoError(t, writer.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWriter_EmptyBatchSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	writer := NewPostgresWriter(db, "", zap.NewNop())
	require.NoError(t, writer.WriteBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
