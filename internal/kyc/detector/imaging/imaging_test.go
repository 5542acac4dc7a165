package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodeRoundTrip(t *testing.T) {
	src := solid(8, 4, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	data, err := EncodePNG(src)
	require.NoError(t, err)

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestGrayGrid(t *testing.T) {
	img := solid(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	grid := GrayGrid(img, 4, 4)
	require.Len(t, grid, 16)
	for _, v := range grid {
		assert.InDelta(t, 255, v, 0.01)
	}

	// upsampling still yields one value per cell
	grid = GrayGrid(solid(2, 2, color.RGBA{A: 255}), 5, 5)
	assert.Len(t, grid, 25)
}

func TestCropClipsToBounds(t *testing.T) {
	img := solid(10, 10, color.RGBA{G: 255, A: 255})
	out := Crop(img, image.Rect(5, 5, 20, 20))
	assert.Equal(t, image.Rect(0, 0, 5, 5), out.Bounds())
}

func TestDownscale(t *testing.T) {
	img := solid(400, 100, color.RGBA{B: 255, A: 255})
	out := Downscale(img, 200)
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())

	small := solid(10, 10, color.RGBA{A: 255})
	assert.Same(t, small, Downscale(small, 200))
}
