package engine

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"verigate/internal/kyc/threshold"
)

// NA marks a statistic that could not be computed.
const NA = "NA"

// WriteText renders the human-readable report.
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if len(r.Groups) == 0 {
		fmt.Fprintln(bw, "No data.")
		return bw.Flush()
	}
	fmt.Fprintf(bw, "=== KYC Calibration Report (FAR target=%.2f%%, records=%d) ===\n", r.TargetFAR*100, r.Total)
	for _, g := range r.Groups {
		fmt.Fprintf(bw, "\n--- Group: country=%s, doc_class=%s ---\n", g.Segment.CountryOrUnknown(), g.Segment.DocClassOrUnknown())
		fmt.Fprintf(bw, "Samples: ALL=%d  GOOD=%d  BAD=%d\n", g.Count, g.Good, g.Bad)
		for _, c := range g.Checks {
			writeCheck(bw, c)
		}
	}
	return bw.Flush()
}

func writeCheck(w io.Writer, c CheckReport) {
	fmt.Fprintf(w, "\n[%s]\n", c.Check.ThresholdName())
	if c.All.N == 0 {
		fmt.Fprintf(w, " ALL : n=0 mean=%s p05=%s p10=%s p50=%s p90=%s p95=%s min=%s max=%s\n", NA, NA, NA, NA, NA, NA, NA, NA)
	} else {
		a := c.All
		fmt.Fprintf(w, " ALL : n=%d mean=%s p05=%s p10=%s p50=%s p90=%s p95=%s min=%s max=%s\n",
			a.N, fmtNum(a.Mean), fmtNum(a.P05), fmtNum(a.P10), fmtNum(a.P50), fmtNum(a.P90), fmtNum(a.P95), fmtNum(a.Min), fmtNum(a.Max))
	}
	writeBucket(w, "GOOD", c.Good)
	writeBucket(w, "BAD ", c.Bad)
	if c.Suggested == nil {
		fmt.Fprintf(w, " -> suggested_threshold=%s (insufficient labeled GOOD/BAD data)\n", NA)
		return
	}
	fmt.Fprintf(w, " -> suggested_threshold=%s  (est FAR=%s, FRR=%s)\n", fmtNum(*c.Suggested), fmtPtr(c.FAR), fmtPtr(c.FRR))
}

func writeBucket(w io.Writer, name string, s Summary) {
	if s.N == 0 {
		fmt.Fprintf(w, " %s: n=0\n", name)
		return
	}
	fmt.Fprintf(w, " %s: n=%d mean=%s p05=%s p10=%s p50=%s p90=%s p95=%s\n",
		name, s.N, fmtNum(s.Mean), fmtNum(s.P05), fmtNum(s.P10), fmtNum(s.P50), fmtNum(s.P90), fmtNum(s.P95))
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }

func fmtPtr(v *float64) string {
	if v == nil {
		return NA
	}
	return fmtNum(*v)
}

// Override is one suggested threshold addressed by resolver key.
type Override struct {
	Key   string
	Value float64
}

// Overrides lists the suggested thresholds of every addressable group in
// report order. Values are rounded up to three decimals so the override never
// admits more than the suggestion. Document-class-only groups are skipped
// because no resolver key addresses them.
func (r *Report) Overrides(prefix string) []Override {
	if prefix == "" {
		prefix = "APP"
	}
	var out []Override
	for _, g := range r.Groups {
		for _, c := range g.Checks {
			if c.Suggested == nil {
				continue
			}
			key, ok := threshold.SegmentKey(prefix, c.Check, g.Segment)
			if !ok {
				continue
			}
			out = append(out, Override{Key: key, Value: RoundUp(*c.Suggested)})
		}
	}
	return out
}

// OverrideLines renders Overrides as KEY=value lines.
func (r *Report) OverrideLines(prefix string) []string {
	ovs := r.Overrides(prefix)
	lines := make([]string, 0, len(ovs))
	for _, o := range ovs {
		lines = append(lines, o.Key+"="+strconv.FormatFloat(o.Value, 'f', 3, 64))
	}
	return lines
}

// OverrideMap returns Overrides keyed by resolver key, suitable for the YAML
// override file.
func (r *Report) OverrideMap(prefix string) map[string]float64 {
	ovs := r.Overrides(prefix)
	out := make(map[string]float64, len(ovs))
	for _, o := range ovs {
		out[o.Key] = o.Value
	}
	return out
}

// RoundUp rounds v up to three decimals, clamped to [0,1].
func RoundUp(v float64) float64 {
	r := math.Ceil(v*1000-1e-9) / 1000
	return math.Max(0, math.Min(1, r))
}
