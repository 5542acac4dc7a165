// Package engine computes per-segment score statistics from labeled audit
// records and suggests thresholds for a target false-accept rate.
package engine

import (
	"math"
	"sort"
)

// Quantile returns the p-quantile of an ascending sample by linear
// interpolation between order statistics. p is clamped to [0,1]. ok is false
// for an empty sample.
func Quantile(sorted []float64, p float64) (v float64, ok bool) {
	n := len(sorted)
	switch n {
	case 0:
		return 0, false
	case 1:
		return sorted[0], true
	}
	p = math.Max(0, math.Min(1, p))
	pos := p * float64(n-1)
	i := int(math.Floor(pos))
	if i+1 >= n {
		return sorted[n-1], true
	}
	frac := pos - float64(i)
	return sorted[i]*(1-frac) + sorted[i+1]*frac, true
}

// Summary describes one score sample. N is 0 for an empty sample, in which
// case every other field is meaningless.
type Summary struct {
	N    int
	Mean float64
	P05  float64
	P10  float64
	P50  float64
	P90  float64
	P95  float64
	Min  float64
	Max  float64
}

// Summarize sorts a copy of values and computes its summary.
func Summarize(values []float64) Summary {
	s := sortedCopy(values)
	if len(s) == 0 {
		return Summary{}
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	q := func(p float64) float64 {
		v, _ := Quantile(s, p)
		return v
	}
	return Summary{
		N:    len(s),
		Mean: sum / float64(len(s)),
		P05:  q(0.05),
		P10:  q(0.10),
		P50:  q(0.50),
		P90:  q(0.90),
		P95:  q(0.95),
		Min:  s[0],
		Max:  s[len(s)-1],
	}
}

// GoodFloorQuantile keeps at least 90% of GOOD samples at or above the
// suggested threshold.
const GoodFloorQuantile = 0.10

// SuggestThreshold returns max(thrFAR, thrGood) where thrFAR is the
// (1-targetFAR) quantile of bad and thrGood the 10th percentile of good.
// Either side may be missing; ok is false when both are.
func SuggestThreshold(good, bad []float64, targetFAR float64) (thr float64, ok bool) {
	far, farOK := Quantile(sortedCopy(bad), 1-targetFAR)
	floor, floorOK := Quantile(sortedCopy(good), GoodFloorQuantile)
	switch {
	case farOK && floorOK:
		return math.Max(far, floor), true
	case farOK:
		return far, true
	case floorOK:
		return floor, true
	default:
		return 0, false
	}
}

// RateAtOrAbove is the fraction of values >= thr. ok is false for no values.
func RateAtOrAbove(values []float64, thr float64) (rate float64, ok bool) {
	n, total := 0, 0
	for _, v := range values {
		if !finite(v) {
			continue
		}
		total++
		if v >= thr {
			n++
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(n) / float64(total), true
}

// sortedCopy returns the finite values of values in ascending order.
func sortedCopy(values []float64) []float64 {
	s := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			s = append(s, v)
		}
	}
	sort.Float64s(s)
	return s
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
