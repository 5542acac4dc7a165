// Package imaging holds the small raster helpers shared by the in-process
// detector backends: decoding, box-filtered resampling, and cropping.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"
)

// ErrEmpty is returned when no image bytes were supplied.
var ErrEmpty = errors.New("empty image")

// Decode parses PNG, JPEG or GIF bytes.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// EncodePNG serializes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Luma returns the Rec. 601 luminance of the pixel at (x, y) in 0..255.
func Luma(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257
}

// RGB returns the 8-bit channels of the pixel at (x, y).
func RGB(img image.Image, x, y int) (float64, float64, float64) {
	r, g, b, _ := img.At(x, y).RGBA()
	return float64(r) / 257, float64(g) / 257, float64(b) / 257
}

// GrayGrid box-averages img into a w*h luminance grid, row-major.
func GrayGrid(img image.Image, w, h int) []float64 {
	out := make([]float64, w*h)
	sampleBoxes(img, w, h, func(i int, x0, y0, x1, y1 int) {
		var sum float64
		n := 0
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				sum += Luma(img, x, y)
				n++
			}
		}
		if n > 0 {
			out[i] = sum / float64(n)
		}
	})
	return out
}

// RGBGrid box-averages img into a w*h grid of 8-bit channel triples, planar
// (all R, then all G, then all B).
func RGBGrid(img image.Image, w, h int) []float64 {
	plane := w * h
	out := make([]float64, 3*plane)
	sampleBoxes(img, w, h, func(i int, x0, y0, x1, y1 int) {
		var sr, sg, sb float64
		n := 0
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				r, g, b := RGB(img, x, y)
				sr, sg, sb = sr+r, sg+g, sb+b
				n++
			}
		}
		if n > 0 {
			out[i] = sr / float64(n)
			out[plane+i] = sg / float64(n)
			out[2*plane+i] = sb / float64(n)
		}
	})
	return out
}

// sampleBoxes maps each output cell to its source rectangle. Cells always
// cover at least one source pixel, so upsampling repeats pixels.
func sampleBoxes(img image.Image, w, h int, fn func(i int, x0, y0, x1, y1 int)) {
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	for gy := 0; gy < h; gy++ {
		y0 := b.Min.Y + gy*sh/h
		y1 := b.Min.Y + (gy+1)*sh/h
		if y1 <= y0 {
			y1 = y0 + 1
		}
		for gx := 0; gx < w; gx++ {
			x0 := b.Min.X + gx*sw/w
			x1 := b.Min.X + (gx+1)*sw/w
			if x1 <= x0 {
				x1 = x0 + 1
			}
			fn(gy*w+gx, x0, y0, x1, y1)
		}
	}
}

// Crop copies r (clipped to the image bounds) into a new RGBA image.
func Crop(img image.Image, r image.Rectangle) image.Image {
	r = r.Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// Downscale returns img box-averaged so neither side exceeds maxSide. Images
// already small enough are returned unchanged.
func Downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}
	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}
	grid := RGBGrid(img, w, h)
	plane := w * h
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < plane; i++ {
		o := i * 4
		dst.Pix[o] = uint8(grid[i])
		dst.Pix[o+1] = uint8(grid[plane+i])
		dst.Pix[o+2] = uint8(grid[2*plane+i])
		dst.Pix[o+3] = 0xff
	}
	return dst
}
