package simple

import (
	"context"
	"image"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/imaging"
)

const (
	defaultPortraitMinSize = 64
	defaultPortraitMargin  = 0.20
	portraitMethod         = "fixed_region"
)

// Portrait extraction failure reasons.
const (
	ReasonImageTooSmall = "image_too_small"
	ReasonCropTooSmall  = "crop_too_small"
)

// portraitRegion is where ID-1 identity cards print the holder photo, as
// fractions of the card width and height.
var portraitRegion = struct{ x0, y0, x1, y1 float64 }{0.04, 0.22, 0.34, 0.88}

// PortraitExtractor crops the conventional portrait area of a card front and
// pads it by a margin.
type PortraitExtractor struct {
	minSize int
	margin  float64
}

func NewPortraitExtractor(minSize int, margin float64) *PortraitExtractor {
	if minSize <= 0 {
		minSize = defaultPortraitMinSize
	}
	if margin < 0 {
		margin = defaultPortraitMargin
	}
	return &PortraitExtractor{minSize: minSize, margin: margin}
}

func (p *PortraitExtractor) ExtractPortrait(ctx context.Context, front []byte) (detector.Portrait, error) {
	img, err := imaging.Decode(front)
	if err != nil {
		return detector.Portrait{}, err
	}
	if err := ctx.Err(); err != nil {
		return detector.Portrait{}, err
	}
	b := img.Bounds()
	if min(b.Dx(), b.Dy()) < p.minSize {
		return detector.Portrait{Method: portraitMethod, Reason: ReasonImageTooSmall}, nil
	}

	r := p.region(b)
	if min(r.Dx(), r.Dy()) < p.minSize {
		return detector.Portrait{Method: portraitMethod, Reason: ReasonCropTooSmall}, nil
	}
	data, err := imaging.EncodePNG(imaging.Crop(img, r))
	if err != nil {
		return detector.Portrait{}, err
	}
	return detector.Portrait{
		Image:  data,
		BBox:   []int{r.Min.X - b.Min.X, r.Min.Y - b.Min.Y, r.Dx(), r.Dy()},
		Method: portraitMethod,
	}, nil
}

func (p *PortraitExtractor) region(b image.Rectangle) image.Rectangle {
	w, h := float64(b.Dx()), float64(b.Dy())
	x0, x1 := portraitRegion.x0*w, portraitRegion.x1*w
	y0, y1 := portraitRegion.y0*h, portraitRegion.y1*h
	padX := (x1 - x0) * p.margin
	padY := (y1 - y0) * p.margin
	r := image.Rect(
		b.Min.X+int(x0-padX), b.Min.Y+int(y0-padY),
		b.Min.X+int(x1+padX), b.Min.Y+int(y1+padY),
	)
	return r.Intersect(b)
}
