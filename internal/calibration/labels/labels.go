// Package labels attaches reviewer labels to audit records.
package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"verigate/internal/calibration/record"
)

// Stats counts what Merge did.
type Stats struct {
	Records      int
	Labeled      int
	Unrecognized int
	// InvalidCells counts score and pass cells dropped as unparseable.
	InvalidCells int
}

// Load reads a request_id,label CSV. An optional header row is skipped.
// Labels outside the GOOD/BAD vocabulary map to unlabeled and are counted.
func Load(r io.Reader) (map[string]record.Label, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := map[string]record.Label{}
	unrecognized := 0
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, unrecognized, nil
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read labels line %d: %w", line, err)
		}
		if len(row) == 0 {
			continue
		}
		id := strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff"))
		if id == "" || (line == 1 && strings.EqualFold(id, "request_id")) {
			continue
		}
		raw := ""
		if len(row) > 1 {
			raw = row[1]
		}
		label := record.ParseLabel(raw)
		if label == record.LabelNone && strings.TrimSpace(raw) != "" {
			unrecognized++
		}
		out[id] = label
	}
}

// Merge copies the audit records from log to out with a label column, taking
// each label from labels by request id. Records without an entry keep any
// label they already carry.
func Merge(log, labels io.Reader, out io.Writer) (Stats, error) {
	byID, unrecognized, err := Load(labels)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Unrecognized: unrecognized}

	rd, err := record.NewReader(log)
	if err != nil {
		return stats, err
	}
	w := record.NewWriter(out, true)
	if err := w.WriteHeader(); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		if label, ok := byID[rec.RequestID]; ok {
			rec.Label = label
		}
		if rec.Label != record.LabelNone {
			stats.Labeled++
		}
		stats.Records++
		if err := w.Write(rec); err != nil {
			return stats, fmt.Errorf("write record: %w", err)
		}
	}
	stats.InvalidCells = rd.Invalid()
	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("flush: %w", err)
	}
	return stats, nil
}
