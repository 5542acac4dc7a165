// Package sentinel holds errors for infrastructure facts. Adapters return these
// (optionally wrapped) so callers can tell a transient dependency failure from
// a bad input without knowing which backend produced it.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
package sentinel

import "errors"

// ErrUnavailable means a dependency is unreachable, failing or too slow.
var ErrUnavailable = errors.New("unavailable")
