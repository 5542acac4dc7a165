package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"verigate/internal/kyc/models"
)

const reasonSeparator = ";"

// headerAliases accepts older spellings of column names.
var headerAliases = map[string]string{
	"docclass":  "doc_class",
	"doc_class": "doc_class",
	"requestid": "request_id",
	"timestamp": "ts",
}

// Header returns the column header, with the label column when labeled.
func Header(labeled bool) []string {
	h := append([]string(nil), Columns...)
	if labeled {
		h = append(h, LabelColumn)
	}
	return h
}

// Encode renders r as CSV fields. Absent scores and flags are empty strings.
func Encode(r Record, labeled bool) []string {
	row := make([]string, 0, len(Columns)+1)
	row = append(row,
		r.Timestamp.UTC().Format(TimeLayout),
		r.RequestID,
		r.InstanceID,
		r.Segment.CountryOrUnknown(),
		r.Segment.DocClassOrUnknown(),
	)
	for _, c := range models.AllChecks {
		row = append(row, formatScore(r.Scores[c]))
	}
	for _, c := range models.AllChecks {
		row = append(row, formatBool(r.Passed[c]))
	}
	row = append(row, string(r.Decision), strings.Join(r.Reasons, reasonSeparator))
	if labeled {
		row = append(row, string(r.Label))
	}
	return row
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func formatBool(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "1"
	default:
		return "0"
	}
}

// Decoder maps a header onto column positions.
type Decoder struct {
	index   map[string]int
	invalid int
}

// NewDecoder validates header. Every fixed column except request metadata is
// required; unknown columns are ignored.
func NewDecoder(header []string) (*Decoder, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	var missing []string
	for _, c := range models.AllChecks {
		if _, ok := index[c.ColumnName()+"_score"]; !ok {
			missing = append(missing, c.ColumnName()+"_score")
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("audit header missing columns: %s", strings.Join(missing, ", "))
	}
	return &Decoder{index: index}, nil
}

// Labeled reports whether the header has a label column.
func (d *Decoder) Labeled() bool {
	_, ok := d.index[LabelColumn]
	return ok
}

func (d *Decoder) field(row []string, name string) string {
	i, ok := d.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Invalid is the number of score and pass cells that could not be parsed and
// were read as absent.
func (d *Decoder) Invalid() int { return d.invalid }

// Decode parses one row. Unparseable, non-finite and out-of-range scores and
// unrecognized pass flags are read as absent and counted in Invalid.
func (d *Decoder) Decode(row []string) (Record, error) {
	r := Record{
		RequestID:  d.field(row, "request_id"),
		InstanceID: d.field(row, "instance_id"),
		Segment:    models.SegmentFromColumns(d.field(row, "country"), d.field(row, "doc_class")),
		Scores:     make(map[models.CheckType]*float64, len(models.AllChecks)),
		Passed:     make(map[models.CheckType]*bool, len(models.AllChecks)),
		Decision:   models.Decision(d.field(row, "decision")),
		Label:      ParseLabel(d.field(row, LabelColumn)),
	}
	if ts := d.field(row, "ts"); ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return Record{}, fmt.Errorf("parse ts %q: %w", ts, err)
		}
		r.Timestamp = t.UTC()
	}
	for _, c := range models.AllChecks {
		score, err := parseScore(d.field(row, c.ColumnName()+"_score"))
		if err != nil {
			d.invalid++
		}
		r.Scores[c] = score
		passed, err := parseBool(d.field(row, c.ColumnName()+"_pass"))
		if err != nil {
			d.invalid++
		}
		r.Passed[c] = passed
	}
	if reasons := d.field(row, "reasons"); reasons != "" {
		r.Reasons = strings.Split(reasons, reasonSeparator)
	} else {
		r.Reasons = []string{}
	}
	return r, nil
}

func parseScore(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || v < 0 || v > 1 {
		return nil, fmt.Errorf("score %q outside [0,1]", s)
	}
	return &v, nil
}

func parseBool(s string) (*bool, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "1", "true":
		v := true
		return &v, nil
	case "0", "false":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid flag %q", s)
	}
}

// Reader streams records from an audit CSV with a header row.
type Reader struct {
	csv *csv.Reader
	dec *Decoder
	row int
}

// ErrEmpty is returned by NewReader for input without a header.
var ErrEmpty = errors.New("audit file is empty")

// NewReader reads and validates the header.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	dec, err := NewDecoder(header)
	if err != nil {
		return nil, err
	}
	return &Reader{csv: cr, dec: dec, row: 1}, nil
}

// Labeled reports whether the input carries a label column.
func (r *Reader) Labeled() bool { return r.dec.Labeled() }

// Invalid is the number of cells read as absent so far.
func (r *Reader) Invalid() int { return r.dec.Invalid() }

// Next returns the next record or io.EOF.
func (r *Reader) Next() (Record, error) {
	row, err := r.csv.Read()
	if err != nil {
		return Record{}, err
	}
	r.row++
	rec, err := r.dec.Decode(row)
	if err != nil {
		return Record{}, fmt.Errorf("row %d: %w", r.row, err)
	}
	return rec, nil
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Writer writes records as CSV.
type Writer struct {
	csv     *csv.Writer
	labeled bool
}

func NewWriter(w io.Writer, labeled bool) *Writer {
	return &Writer{csv: csv.NewWriter(w), labeled: labeled}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Header(w.labeled))
}

// Write writes one record.
func (w *Writer) Write(r Record) error {
	return w.csv.Write(Encode(r, w.labeled))
}

// Flush flushes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
