package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/lordthorzonus/oura-api-exporter/internal/exporter"
)

const DefaultTimeSeriesTable = "oura_timeseries"

// PostgresWriter stores points in a PostgreSQL or TimescaleDB table with
// JSONB tags and fields.
type PostgresWriter struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
}

func NewPostgresWriter(db *sql.DB, table string, logger *zap.Logger) *PostgresWriter {
	if table == "" {
		table = DefaultTimeSeriesTable
	}
	return &PostgresWriter{
		db:     db,
		table:  table,
		logger: logger,
	}
}

func (w *PostgresWriter) Name() string {
	return "postgres"
}

// EnsureSchema creates the table and its uniqueness index when missing.
func (w *PostgresWriter) EnsureSchema(ctx context.Context) error {
	table := pq.QuoteIdentifier(w.table)
	index := pq.QuoteIdentifier(w.table + "_uniq")
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		measurement TEXT NOT NULL,
		ts TIMESTAMPTZ NOT NULL,
		person_name TEXT NOT NULL,
		tags JSONB NOT NULL,
		fields JSONB NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (measurement, person_name, ts, tags);`, table, index, table)

	if _, err := w.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.table, err)
	}
	return nil
}

// WriteBatch inserts all points in one statement. Rows that already exist
// are skipped.
func (w *PostgresWriter) WriteBatch(ctx context.Context, points []exporter.TimeSeriesPoint) error {
	if len(points) == 0 {
		return nil
	}

	const columns = 5
	placeholders := make([]string, 0, len(points))
	args := make([]interface{}, 0, len(points)*columns)

	for i, p := range points {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags: %w", err)
		}
		fields, err := json.Marshal(p.Fields)
		if err != nil {
			return fmt.Errorf("failed to encode fields: %w", err)
		}

		base := i * columns
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5))
		args = append(args, p.Measurement, p.Timestamp.UTC(), p.Tags["person_name"], string(tags), string(fields))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (measurement, ts, person_name, tags, fields) VALUES %s ON CONFLICT DO NOTHING",
		pq.QuoteIdentifier(w.table), strings.Join(placeholders, ", "))

	if _, err := w.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert %d points: %w", len(points), err)
	}

	w.logger.Debug("Wrote points to PostgreSQL",
		zap.String("table", w.table),
		zap.Int("count", len(points)),
	)
	return nil
}
