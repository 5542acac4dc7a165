package engine

import (
	"sort"

	"verigate/internal/calibration/record"
	"verigate/internal/kyc/models"
)

// DefaultTargetFAR is the false-accept rate targeted when none is given.
const DefaultTargetFAR = 0.01

// Samples holds the scores of one check in one group, by bucket. All includes
// labeled scores.
type Samples struct {
	All  []float64
	Good []float64
	Bad  []float64
}

// CheckReport is the calibration result for one check in one group.
type CheckReport struct {
	Check models.CheckType
	All   Summary
	Good  Summary
	Bad   Summary

	// Suggested is nil when neither GOOD nor BAD scores exist.
	Suggested *float64
	// FAR and FRR are realized at Suggested; nil without BAD or GOOD scores.
	FAR *float64
	FRR *float64
}

// Group is the calibration result for one segment.
type Group struct {
	Segment models.Segment
	Count   int
	Good    int
	Bad     int
	Checks  []CheckReport
}

// Report is the outcome of one calibration run.
type Report struct {
	TargetFAR float64
	Total     int
	Groups    []Group
}

type groupAcc struct {
	seg     models.Segment
	count   int
	good    int
	bad     int
	samples map[models.CheckType]*Samples
}

// Calibrate groups records by segment and computes per-check summaries and
// suggested thresholds. Groups are ordered by country then document class,
// with UNK compared as text.
func Calibrate(records []record.Record, targetFAR float64) *Report {
	groups := map[models.Segment]*groupAcc{}
	for _, rec := range records {
		g, ok := groups[rec.Segment]
		if !ok {
			g = &groupAcc{seg: rec.Segment, samples: map[models.CheckType]*Samples{}}
			for _, c := range models.AllChecks {
				g.samples[c] = &Samples{}
			}
			groups[rec.Segment] = g
		}
		g.count++
		switch rec.Label {
		case record.LabelGood:
			g.good++
		case record.LabelBad:
			g.bad++
		}
		for _, c := range models.AllChecks {
			v, ok := rec.Score(c)
			if !ok || !finite(v) {
				continue
			}
			s := g.samples[c]
			s.All = append(s.All, v)
			switch rec.Label {
			case record.LabelGood:
				s.Good = append(s.Good, v)
			case record.LabelBad:
				s.Bad = append(s.Bad, v)
			}
		}
	}

	report := &Report{TargetFAR: targetFAR, Total: len(records)}
	for _, g := range groups {
		out := Group{Segment: g.seg, Count: g.count, Good: g.good, Bad: g.bad}
		for _, c := range models.AllChecks {
			out.Checks = append(out.Checks, checkReport(c, g.samples[c], targetFAR))
		}
		report.Groups = append(report.Groups, out)
	}
	sort.Slice(report.Groups, func(i, j int) bool {
		a, b := report.Groups[i].Segment, report.Groups[j].Segment
		if a.CountryOrUnknown() != b.CountryOrUnknown() {
			return a.CountryOrUnknown() < b.CountryOrUnknown()
		}
		return a.DocClassOrUnknown() < b.DocClassOrUnknown()
	})
	return report
}

func checkReport(c models.CheckType, s *Samples, targetFAR float64) CheckReport {
	cr := CheckReport{
		Check: c,
		All:   Summarize(s.All),
		Good:  Summarize(s.Good),
		Bad:   Summarize(s.Bad),
	}
	thr, ok := SuggestThreshold(s.Good, s.Bad, targetFAR)
	if !ok {
		return cr
	}
	cr.Suggested = &thr
	if far, ok := RateAtOrAbove(s.Bad, thr); ok {
		cr.FAR = &far
	}
	if pass, ok := RateAtOrAbove(s.Good, thr); ok {
		frr := 1 - pass
		cr.FRR = &frr
	}
	return cr
}
