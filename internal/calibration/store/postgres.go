package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"verigate/internal/calibration/record"
	"verigate/internal/kyc/models"
)

// Schema creates the calibration table. Columns mirror the CSV contract.
const Schema = `
CREATE TABLE IF NOT EXISTS calibration_records (
	day          DATE NOT NULL,
	ts           TIMESTAMPTZ NOT NULL,
	request_id   TEXT NOT NULL,
	instance_id  TEXT NOT NULL DEFAULT '',
	country      TEXT NOT NULL,
	doc_class    TEXT NOT NULL,
	face_score   DOUBLE PRECISION,
	live_score   DOUBLE PRECISION,
	ocr_score    DOUBLE PRECISION,
	doc_score    DOUBLE PRECISION,
	face_pass    BOOLEAN,
	live_pass    BOOLEAN,
	ocr_pass     BOOLEAN,
	doc_pass     BOOLEAN,
	decision     TEXT NOT NULL,
	reasons      TEXT NOT NULL DEFAULT '',
	label        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS calibration_records_day_idx ON calibration_records (day);
`

const insertRecord = `
	INSERT INTO calibration_records (
		day, ts, request_id, instance_id, country, doc_class,
		face_score, live_score, ocr_score, doc_score,
		face_pass, live_pass, ocr_pass, doc_pass,
		decision, reasons, label
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`

const selectDay = `SELECT ts, request_id, instance_id, country, doc_class, ` +
	`face_score, live_score, ocr_score, doc_score, ` +
	`face_pass, live_pass, ocr_pass, doc_pass, ` +
	`decision, reasons, label ` +
	`FROM calibration_records WHERE day = $1 ORDER BY ts, request_id`

// Postgres stores records in the calibration_records table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the table and index if missing.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate calibration schema: %w", err)
	}
	return nil
}

func (s *Postgres) Append(ctx context.Context, rec record.Record) error {
	args := []any{
		rec.Day(),
		rec.Timestamp.UTC(),
		rec.RequestID,
		rec.InstanceID,
		rec.Segment.CountryOrUnknown(),
		rec.Segment.DocClassOrUnknown(),
	}
	for _, c := range models.AllChecks {
		args = append(args, nullFloat(rec.Scores[c]))
	}
	for _, c := range models.AllChecks {
		args = append(args, nullBool(rec.Passed[c]))
	}
	args = append(args, string(rec.Decision), strings.Join(rec.Reasons, ";"), string(rec.Label))

	if _, err := s.db.ExecContext(ctx, insertRecord, args...); err != nil {
		return fmt.Errorf("insert calibration record: %w", err)
	}
	return nil
}

// ListDay returns the records of one UTC day in timestamp order.
func (s *Postgres) ListDay(ctx context.Context, day time.Time) ([]record.Record, error) {
	d := day.UTC()
	rows, err := s.db.QueryContext(ctx, selectDay, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, fmt.Errorf("query calibration records: %w", err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		var (
			rec                      record.Record
			country, docClass        string
			decision, reasons, label string
			scores                   [4]sql.NullFloat64
			passed                   [4]sql.NullBool
		)
		if err := rows.Scan(
			&rec.Timestamp, &rec.RequestID, &rec.InstanceID, &country, &docClass,
			&scores[0], &scores[1], &scores[2], &scores[3],
			&passed[0], &passed[1], &passed[2], &passed[3],
			&decision, &reasons, &label,
		); err != nil {
			return nil, fmt.Errorf("scan calibration record: %w", err)
		}
		rec.Timestamp = rec.Timestamp.UTC()
		rec.Segment = models.SegmentFromColumns(country, docClass)
		rec.Decision = models.Decision(decision)
		rec.Label = record.ParseLabel(label)
		rec.Reasons = []string{}
		if reasons != "" {
			rec.Reasons = strings.Split(reasons, ";")
		}
		rec.Scores = make(map[models.CheckType]*float64, len(models.AllChecks))
		rec.Passed = make(map[models.CheckType]*bool, len(models.AllChecks))
		for i, c := range models.AllChecks {
			if scores[i].Valid {
				v := scores[i].Float64
				rec.Scores[c] = &v
			}
			if passed[i].Valid {
				v := passed[i].Bool
				rec.Passed[c] = &v
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calibration records: %w", err)
	}
	return out, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
