// Package record defines the calibration audit row and its CSV encoding.
//
// The first 15 columns are a stable contract read by the calibration tools;
// new columns may only be appended. A trailing "label" column is added by
// the label merge step.
package record

import (
	"strings"
	"time"

	"verigate/internal/kyc/models"
)

// Columns is the fixed audit header, in order.
var Columns = []string{
	"ts", "request_id", "instance_id", "country", "doc_class",
	"face_score", "live_score", "ocr_score", "doc_score",
	"face_pass", "live_pass", "ocr_pass", "doc_pass",
	"decision", "reasons",
}

// LabelColumn is appended to Columns in labeled files.
const LabelColumn = "label"

// TimeLayout is the timestamp format: UTC, whole seconds, Z suffix.
const TimeLayout = "2006-01-02T15:04:05Z"

// Label is the after-the-fact review outcome of a request.
type Label string

const (
	LabelNone Label = ""
	LabelGood Label = "GOOD"
	LabelBad  Label = "BAD"
)

var labelSynonyms = map[string]Label{
	"GOOD":       LabelGood,
	"OK":         LabelGood,
	"HUMAN_OK":   LabelGood,
	"POS":        LabelGood,
	"BAD":        LabelBad,
	"FAIL":       LabelBad,
	"HUMAN_FAIL": LabelBad,
	"NEG":        LabelBad,
}

// ParseLabel maps reviewer vocabulary onto GOOD/BAD. Anything else is
// unlabeled.
func ParseLabel(raw string) Label {
	return labelSynonyms[strings.ToUpper(strings.TrimSpace(raw))]
}

// Record is one audit row.
type Record struct {
	Timestamp  time.Time
	RequestID  string
	InstanceID string
	Segment    models.Segment
	Scores     map[models.CheckType]*float64
	Passed     map[models.CheckType]*bool
	Decision   models.Decision
	Reasons    []string
	Label      Label
}

// FromDecision builds the row for an aggregate decision.
func FromDecision(d *models.AggregateDecision, instanceID string, ts time.Time) Record {
	r := Record{
		Timestamp:  ts.UTC(),
		RequestID:  d.RequestID,
		InstanceID: instanceID,
		Segment:    d.Segment,
		Scores:     make(map[models.CheckType]*float64, len(models.AllChecks)),
		Passed:     make(map[models.CheckType]*bool, len(models.AllChecks)),
		Decision:   d.Decision,
		Reasons:    append([]string(nil), d.Reasons...),
	}
	for _, c := range d.Checks {
		r.Scores[c.Type] = c.Score
		r.Passed[c.Type] = c.Passed
	}
	return r
}

// Score returns the score of check if present.
func (r Record) Score(check models.CheckType) (float64, bool) {
	if p := r.Scores[check]; p != nil {
		return *p, true
	}
	return 0, false
}

// Day is the UTC date that partitions the record.
func (r Record) Day() time.Time {
	t := r.Timestamp.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
