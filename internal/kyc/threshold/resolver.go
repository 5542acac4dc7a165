// Package threshold resolves the effective pass threshold for a check and a
// population segment from flat key/value overrides.
//
// Keys look like {PREFIX}_{CHECK}_THRESHOLD[__{COUNTRY}[__{DOCCLASS}]] and are
// compared case-insensitively. Lookup goes from the most specific key to the
// least specific one and ends at the compiled-in default; a malformed value is
// skipped as if the key were absent.
package threshold

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"verigate/internal/kyc/models"
)

// Source is a read-only snapshot of override values. Keys passed to Lookup are
// already upper-cased.
type Source interface {
	Lookup(key string) (string, bool)
}

// Defaults holds the compiled-in threshold per check.
type Defaults map[models.CheckType]float64

// StandardDefaults are the compiled-in thresholds.
func StandardDefaults() Defaults {
	return Defaults{
		models.CheckFaceMatch: 0.85,
		models.CheckLiveness:  0.80,
		models.CheckOCR:       0.80,
		models.CheckDocClass:  0.80,
	}
}

// Resolver resolves thresholds. It is safe for concurrent use as long as its
// Source is.
type Resolver struct {
	prefix   string
	defaults Defaults
	source   Source
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger reports ignored malformed overrides.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New creates a resolver. A nil source means "no overrides".
func New(prefix string, defaults Defaults, source Source, opts ...Option) *Resolver {
	if source == nil {
		source = MapSource(nil)
	}
	r := &Resolver{
		prefix:   strings.ToUpper(strings.TrimSpace(prefix)),
		defaults: defaults,
		source:   source,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the threshold for check in seg. It never fails.
func (r *Resolver) Resolve(check models.CheckType, seg models.Segment) float64 {
	for _, key := range Keys(r.prefix, check, seg) {
		raw, ok := r.source.Lookup(key)
		if !ok {
			continue
		}
		v, err := parseThreshold(raw)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("ignoring malformed threshold override",
					"key", key,
					"value", raw,
					"error", err,
				)
			}
			continue
		}
		return v
	}
	return r.defaults[check]
}

// Default returns the compiled-in threshold for check.
func (r *Resolver) Default(check models.CheckType) float64 {
	return r.defaults[check]
}

// Keys lists the override keys consulted for check in seg, most specific first.
// The exact key needs both country and document class.
func Keys(prefix string, check models.CheckType, seg models.Segment) []string {
	base := BaseKey(prefix, check)
	keys := make([]string, 0, 3)
	country := normalizeToken(seg.Country)
	doc := normalizeToken(seg.DocClass)
	if country != "" && doc != "" {
		keys = append(keys, base+"__"+country+"__"+doc)
	}
	if country != "" {
		keys = append(keys, base+"__"+country)
	}
	return append(keys, base)
}

// BaseKey is the global override key for check, e.g. APP_FACE_THRESHOLD.
func BaseKey(prefix string, check models.CheckType) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return check.ThresholdName() + "_THRESHOLD"
	}
	return prefix + "_" + check.ThresholdName() + "_THRESHOLD"
}

// SegmentKey is the most specific key addressable for seg: exact when both
// fields are known, country-only when only the country is, global otherwise.
// ok is false for a document-class-only segment, which no key can address.
func SegmentKey(prefix string, check models.CheckType, seg models.Segment) (string, bool) {
	if seg.Country == "" && seg.DocClass != "" {
		return "", false
	}
	return Keys(prefix, check, seg)[0], true
}

func normalizeToken(v string) string {
	v = strings.TrimSpace(v)
	return strings.ToUpper(strings.ReplaceAll(v, " ", "_"))
}

func parseThreshold(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return 0, errOutOfRange
	}
	return v, nil
}
