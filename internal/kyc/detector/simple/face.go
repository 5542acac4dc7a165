// Package simple implements dependency-free heuristic detectors. They are
// meant for development, smoke tests and as a fallback when no model-backed
// backend is configured; scores are only loosely comparable across backends.
package simple

import (
	"context"
	"image"
	"math/bits"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/imaging"
)

const (
	defaultHashSize    = 16
	defaultDHashWeight = 0.30
	thumbSide          = 32
)

// FaceMatcher blends a difference-hash similarity with a mean absolute pixel
// difference over grayscale thumbnails.
type FaceMatcher struct {
	hashSize    int
	dhashWeight float64
}

// FaceOption configures a FaceMatcher.
type FaceOption func(*FaceMatcher)

// WithHashSize sets the dHash grid width.
func WithHashSize(n int) FaceOption {
	return func(f *FaceMatcher) {
		if n > 0 {
			f.hashSize = n
		}
	}
}

// WithDHashWeight sets the dHash share of the blended score.
func WithDHashWeight(w float64) FaceOption {
	return func(f *FaceMatcher) {
		if w >= 0 && w <= 1 {
			f.dhashWeight = w
		}
	}
}

func NewFaceMatcher(opts ...FaceOption) *FaceMatcher {
	f := &FaceMatcher{hashSize: defaultHashSize, dhashWeight: defaultDHashWeight}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FaceMatcher) Match(ctx context.Context, selfie, reference []byte) (detector.Result, error) {
	a, err := imaging.Decode(selfie)
	if err != nil {
		return detector.Result{}, err
	}
	b, err := imaging.Decode(reference)
	if err != nil {
		return detector.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return detector.Result{}, err
	}

	hashSim := f.dhashSimilarity(a, b)
	pixelSim := l1Similarity(imaging.GrayGrid(a, thumbSide, thumbSide), imaging.GrayGrid(b, thumbSide, thumbSide))
	score := clamp01(f.dhashWeight*hashSim + (1-f.dhashWeight)*pixelSim)

	return detector.Result{
		Score: score,
		Details: map[string]any{
			"method":  "dhash_l1",
			"dhash":   hashSim,
			"l1":      pixelSim,
			"weights": map[string]float64{"dhash": f.dhashWeight, "l1": 1 - f.dhashWeight},
		},
	}, nil
}

func (f *FaceMatcher) dhashSimilarity(a, b image.Image) float64 {
	ha := f.dhash(a)
	hb := f.dhash(b)
	distance := 0
	for i := range ha {
		distance += bits.OnesCount64(ha[i] ^ hb[i])
	}
	total := f.hashSize * f.hashSize
	return 1 - float64(distance)/float64(total)
}

// dhash compares each pixel with its right neighbour on a (n+1) x n grid.
func (f *FaceMatcher) dhash(img image.Image) []uint64 {
	n := f.hashSize
	grid := imaging.GrayGrid(img, n+1, n)
	words := make([]uint64, (n*n+63)/64)
	bit := 0
	for y := 0; y < n; y++ {
		row := grid[y*(n+1) : (y+1)*(n+1)]
		for x := 0; x < n; x++ {
			if row[x] > row[x+1] {
				words[bit/64] |= 1 << (bit % 64)
			}
			bit++
		}
	}
	return words
}

func l1Similarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return 1 - sum/float64(len(a))/255
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
