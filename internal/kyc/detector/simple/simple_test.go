package simple

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/kyc/detector/imaging"
	"verigate/internal/kyc/models"
)

type recognizerFunc func(ctx context.Context, img []byte) (string, error)

func (f recognizerFunc) Recognize(ctx context.Context, img []byte) (string, error) {
	return f(ctx, img)
}

func staticText(text string) recognizerFunc {
	return func(context.Context, []byte) (string, error) { return text, nil }
}

func encode(t *testing.T, img image.Image) []byte {
	t.Helper()
	data, err := imaging.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func checkerboard(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{A: 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.RGBA{R: 255, G: 40, B: 200, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func flat(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func TestFaceMatcher(t *testing.T) {
	ctx := context.Background()
	m := NewFaceMatcher()

	t.Run("identical images score 1", func(t *testing.T) {
		img := encode(t, gradient(64, 64))
		res, err := m.Match(ctx, img, img)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, res.Score, 1e-9)
		assert.Equal(t, "dhash_l1", res.Details["method"])
	})

	t.Run("different images score lower", func(t *testing.T) {
		res, err := m.Match(ctx, encode(t, gradient(64, 64)), encode(t, checkerboard(64, 64, 4)))
		require.NoError(t, err)
		assert.Less(t, res.Score, 0.9)
		assert.GreaterOrEqual(t, res.Score, 0.0)
	})

	t.Run("undecodable input is an error", func(t *testing.T) {
		_, err := m.Match(ctx, []byte("junk"), encode(t, gradient(8, 8)))
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		img := encode(t, gradient(8, 8))
		_, err := m.Match(cctx, img, img)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLivenessDetector(t *testing.T) {
	ctx := context.Background()
	l := NewLivenessDetector()

	flatRes, err := l.ScoreLiveness(ctx, encode(t, flat(64, 64)))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, flatRes.Score, 1e-9)

	sharpRes, err := l.ScoreLiveness(ctx, encode(t, checkerboard(64, 64, 2)))
	require.NoError(t, err)
	assert.Greater(t, sharpRes.Score, flatRes.Score)
	assert.LessOrEqual(t, sharpRes.Score, 1.0)
	assert.Contains(t, sharpRes.Details, "lap_var")
}

func TestPortraitExtractor(t *testing.T) {
	ctx := context.Background()

	t.Run("crops the portrait region", func(t *testing.T) {
		p := NewPortraitExtractor(64, 0.2)
		out, err := p.ExtractPortrait(ctx, encode(t, gradient(856, 540)))
		require.NoError(t, err)
		require.True(t, out.Found())
		require.Len(t, out.BBox, 4)
		assert.Equal(t, portraitMethod, out.Method)

		crop, err := imaging.Decode(out.Image)
		require.NoError(t, err)
		assert.Equal(t, out.BBox[2], crop.Bounds().Dx())
		assert.Equal(t, out.BBox[3], crop.Bounds().Dy())
	})

	t.Run("small image is not found", func(t *testing.T) {
		p := NewPortraitExtractor(64, 0.2)
		out, err := p.ExtractPortrait(ctx, encode(t, gradient(40, 40)))
		require.NoError(t, err)
		assert.False(t, out.Found())
		assert.Equal(t, ReasonImageTooSmall, out.Reason)
	})

	t.Run("region below min size is not found", func(t *testing.T) {
		p := NewPortraitExtractor(200, 0)
		out, err := p.ExtractPortrait(ctx, encode(t, gradient(300, 300)))
		require.NoError(t, err)
		assert.False(t, out.Found())
		assert.Equal(t, ReasonCropTooSmall, out.Reason)
	})
}

func TestTextExtractor(t *testing.T) {
	ctx := context.Background()
	front := []byte("front")

	t.Run("scores parsed fields", func(t *testing.T) {
		x := NewTextExtractor(staticText("DEMOCRATIC SOCIALIST REPUBLIC OF SRI LANKA\nName: Test User\nNo AB1234567 DOB 1990-01-02"))
		res, err := x.ExtractText(ctx, front, nil)
		require.NoError(t, err)
		assert.Equal(t, "AB1234567", res.Details["docNumber"])
		assert.Equal(t, "1990-01-02", res.Details["dob"])
		assert.NotNil(t, res.Details["name"])
		assert.InDelta(t, 0.95, res.Score, 1e-9)
		assert.Contains(t, res.Details[models.DetailTextPreview], "SRI LANKA")
	})

	t.Run("empty text scores zero", func(t *testing.T) {
		x := NewTextExtractor(staticText("   "))
		res, err := x.ExtractText(ctx, front, nil)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
		assert.Equal(t, reasonNoText, res.Details[models.DetailReason])
	})

	t.Run("recognizer failure propagates", func(t *testing.T) {
		boom := errors.New("ocr down")
		x := NewTextExtractor(recognizerFunc(func(context.Context, []byte) (string, error) { return "", boom }))
		_, err := x.ExtractText(ctx, front, nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("both sides are read", func(t *testing.T) {
		var seen [][]byte
		x := NewTextExtractor(recognizerFunc(func(_ context.Context, img []byte) (string, error) {
			seen = append(seen, img)
			return "x", nil
		}))
		_, err := x.ExtractText(ctx, []byte("f"), []byte("b"))
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("f"), []byte("b")}, seen)
	})

	t.Run("preview is truncated", func(t *testing.T) {
		long := make([]rune, 500)
		for i := range long {
			long[i] = 'é'
		}
		assert.Len(t, []rune(Preview(string(long))), previewRunes)
	})
}

func TestDocumentClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("NIC with country", func(t *testing.T) {
		c := NewDocumentClassifier(staticText("SRI LANKA NATIONAL IDENTITY CARD"))
		res, err := c.Classify(ctx, []byte("f"), nil)
		require.NoError(t, err)
		assert.Equal(t, classNIC, res.Details[models.DetailDocClass])
		assert.Equal(t, "LK", res.Details[models.DetailCountry])
		assert.InDelta(t, 0.9, res.Score, 1e-9)
	})

	t.Run("single keyword is not tagged", func(t *testing.T) {
		c := NewDocumentClassifier(staticText("driving licence sri lanka"))
		res, err := c.Classify(ctx, []byte("f"), nil)
		require.NoError(t, err)
		assert.Nil(t, res.Details[models.DetailDocClass])
		assert.Equal(t, "LK", res.Details[models.DetailCountry])
		assert.InDelta(t, 0.7, res.Score, 1e-9)
	})

	t.Run("no text", func(t *testing.T) {
		c := NewDocumentClassifier(staticText(""))
		res, err := c.Classify(ctx, []byte("f"), nil)
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
		assert.Nil(t, res.Details[models.DetailCountry])
	})
}
