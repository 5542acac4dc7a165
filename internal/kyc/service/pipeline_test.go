package service

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/imaging"
	"verigate/internal/kyc/detector/simple"
	"verigate/internal/kyc/models"
	"verigate/internal/kyc/portrait"
	"verigate/internal/kyc/threshold"
)

type fixedText string

func (f fixedText) Recognize(context.Context, []byte) (string, error) { return string(f), nil }

func texturedPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 96, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			c := color.RGBA{R: 20, G: 30, B: 40, A: 255}
			if (x/2+y/2)%2 == 0 {
				c = color.RGBA{R: 250, G: 200, B: 30, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	data, err := imaging.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func simplePipeline(t *testing.T, text string, mode portrait.Mode) *Service {
	t.Helper()
	rec := fixedText(text)
	set := &detector.Set{
		Face:     simple.NewFaceMatcher(),
		Liveness: simple.NewLivenessDetector(),
		Text:     simple.NewTextExtractor(rec),
		DocClass: simple.NewDocumentClassifier(rec),
		Portrait: simple.NewPortraitExtractor(0, 0.2),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(set,
		portrait.New(mode, set.Portrait, portrait.WithLogger(logger)),
		threshold.New("APP", threshold.StandardDefaults(), nil),
		WithLogger(logger),
	)
	require.NoError(t, err)
	return svc
}

func TestPipelineApprovesMatchingDocument(t *testing.T) {
	selfie := texturedPNG(t)
	text := "DEMOCRATIC SOCIALIST REPUBLIC OF SRI LANKA NATIONAL IDENTITY CARD Name: Test Holder No AB1234567 DOB 1990-01-02"
	svc := simplePipeline(t, text, portrait.ModeAuto)

	got := svc.Aggregate(context.Background(), Request{Selfie: selfie, Portrait: selfie, Front: []byte("front")})

	require.Len(t, got.Checks, 4)
	for _, c := range got.Checks {
		require.NotNil(t, c.Score, c.Type)
		assert.True(t, c.IsPassed(), "%s score %v", c.Type, *c.Score)
	}
	assert.Equal(t, models.DecisionApprove, got.Decision)
	assert.Empty(t, got.Reasons)
	assert.Equal(t, models.Segment{Country: "LK", DocClass: "NIC"}, got.Segment)
}

func TestPipelineSelfieOnly(t *testing.T) {
	svc := simplePipeline(t, "", portrait.ModeAuto)

	got := svc.Aggregate(context.Background(), Request{Selfie: texturedPNG(t)})

	face := got.Checks[0]
	assert.Nil(t, face.Score)
	assert.Equal(t, "none", face.Details[models.DetailSource])
	assert.NotEqual(t, models.DecisionApprove, got.Decision)
}

func TestPipelineWithoutInputs(t *testing.T) {
	for _, mode := range []portrait.Mode{portrait.ModeAuto, portrait.ModeProvided, portrait.ModeOff} {
		t.Run(string(mode), func(t *testing.T) {
			got := simplePipeline(t, "", mode).Aggregate(context.Background(), Request{})
			for _, c := range got.Checks {
				assert.Nil(t, c.Score, c.Type)
			}
			assert.Equal(t, models.DecisionUnderReview, got.Decision)
		})
	}
}
