package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"verigate/internal/calibration/record"
)

// DayFile appends records to {dir}/{YYYY-MM-DD}.csv, one file per UTC day.
// Writers to the same day are serialized; different days proceed in parallel.
type DayFile struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDayFile creates dir if needed.
func NewDayFile(dir string) (*DayFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("calibration directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create calibration directory: %w", err)
	}
	return &DayFile{dir: dir, locks: map[string]*sync.Mutex{}}, nil
}

// Path returns the file holding records of day.
func (d *DayFile) Path(day time.Time) string {
	return filepath.Join(d.dir, day.UTC().Format(time.DateOnly)+".csv")
}

func (d *DayFile) lock(path string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[path]
	if !ok {
		l = &sync.Mutex{}
		d.locks[path] = l
	}
	return l
}

// Append writes rec to its day file, creating the file with a header if it
// does not exist yet.
func (d *DayFile) Append(ctx context.Context, rec record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := d.Path(rec.Timestamp)
	l := d.lock(path)
	l.Lock()
	defer l.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat audit file: %w", err)
	}

	w := record.NewWriter(f, false)
	if info.Size() == 0 {
		if err := w.WriteHeader(); err != nil {
			_ = f.Close()
			return fmt.Errorf("write audit header: %w", err)
		}
	}
	if err := w.Write(rec); err != nil {
		_ = f.Close()
		return fmt.Errorf("write audit row: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush audit row: %w", err)
	}
	return f.Close()
}
