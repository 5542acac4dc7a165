package simple

import (
	"context"
	"image"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/imaging"
)

const (
	livenessMaxSide = 256
	focusNormalizer = 1500.0
	colorNormalizer = 1500.0
	focusWeight     = 0.6
	colorWeight     = 0.4
)

// LivenessDetector scores sharpness (Laplacian variance) and colour spread. A
// flat or blurred re-capture of a printout scores low on both.
type LivenessDetector struct{}

func NewLivenessDetector() *LivenessDetector { return &LivenessDetector{} }

func (l *LivenessDetector) ScoreLiveness(ctx context.Context, selfie []byte) (detector.Result, error) {
	img, err := imaging.Decode(selfie)
	if err != nil {
		return detector.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return detector.Result{}, err
	}
	img = imaging.Downscale(img, livenessMaxSide)

	lap := laplacianVariance(img)
	col := colorVariance(img)
	focus := min(1, lap/focusNormalizer)
	color := min(1, col/colorNormalizer)

	return detector.Result{
		Score: clamp01(focusWeight*focus + colorWeight*color),
		Details: map[string]any{
			"method":    "focus_color",
			"lap_var":   lap,
			"color_var": col,
		},
	}, nil
}

// laplacianVariance applies the 4-neighbour Laplacian to interior pixels.
func laplacianVariance(img image.Image) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0
	}
	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray[y*w+x] = imaging.Luma(img, b.Min.X+x, b.Min.Y+y)
		}
	}
	var sum, sumSq float64
	n := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			v := gray[i-1] + gray[i+1] + gray[i-w] + gray[i+w] - 4*gray[i]
			sum += v
			sumSq += v * v
			n++
		}
	}
	return variance(sum, sumSq, n)
}

// colorVariance is the mean per-channel variance.
func colorVariance(img image.Image) float64 {
	b := img.Bounds()
	var sums, sumSqs [3]float64
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl := imaging.RGB(img, x, y)
			for c, v := range [3]float64{r, g, bl} {
				sums[c] += v
				sumSqs[c] += v * v
			}
			n++
		}
	}
	var total float64
	for c := range sums {
		total += variance(sums[c], sumSqs[c], n)
	}
	return total / 3
}

func variance(sum, sumSq float64, n int) float64 {
	if n == 0 {
		return 0
	}
	mean := sum / float64(n)
	v := sumSq/float64(n) - mean*mean
	if v < 0 {
		return 0
	}
	return v
}
