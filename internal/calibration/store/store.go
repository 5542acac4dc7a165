// Package store persists calibration audit records.
package store

import (
	"context"
	"errors"

	"verigate/internal/calibration/record"
)

// Appender persists one record.
type Appender interface {
	Append(ctx context.Context, rec record.Record) error
}

// Fanout appends to every sink and joins their errors. A failing sink does not
// stop the others.
type Fanout []Appender

func (f Fanout) Append(ctx context.Context, rec record.Record) error {
	var errs []error
	for _, a := range f {
		if err := a.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
