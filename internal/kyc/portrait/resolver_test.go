package portrait

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/mocks"
	"verigate/internal/kyc/models"
)

var (
	selfie   = []byte("selfie")
	provided = []byte("portrait")
	front    = []byte("front")
	crop     = []byte("crop")
)

type ResolverSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	extractor *mocks.MockPortraitExtractor
	logger    *slog.Logger
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.extractor = mocks.NewMockPortraitExtractor(s.ctrl)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ResolverSuite) TearDownTest() {
	s.ctrl.Finish()
}

// =============================================================================
// Provided portrait
// =============================================================================

func (s *ResolverSuite) TestProvidedPortraitWins() {
	for _, mode := range []Mode{ModeAuto, ModeProvided} {
		s.Run(string(mode), func() {
			r := New(mode, s.extractor, WithLogger(s.logger))
			res := r.Resolve(s.ctx, Input{Selfie: selfie, Portrait: provided, Front: front})
			s.Equal(SourceProvided, res.Source)
			s.Equal(provided, res.Image)
			s.Equal(true, res.Details()[models.DetailPortraitUsed])
		})
	}
}

// =============================================================================
// Automatic extraction
// =============================================================================

func (s *ResolverSuite) TestAutoExtraction() {
	s.Run("success returns crop with bbox", func() {
		s.extractor.EXPECT().ExtractPortrait(gomock.Any(), front).
			Return(detector.Portrait{Image: crop, BBox: []int{1, 2, 3, 4}, Method: "fixed_region"}, nil)

		res := New(ModeAuto, s.extractor).Resolve(s.ctx, Input{Selfie: selfie, Front: front})
		s.Equal(SourceAuto, res.Source)
		s.Equal(crop, res.Image)
		details := res.Details()
		s.Equal("auto", details[models.DetailSource])
		s.Equal([]int{1, 2, 3, 4}, details[models.DetailPortraitBBox])
		s.Equal(true, details[models.DetailPortraitUsed])
	})

	s.Run("not found falls back to front with reason", func() {
		s.extractor.EXPECT().ExtractPortrait(gomock.Any(), front).
			Return(detector.Portrait{Reason: "no_faces"}, nil)

		res := New(ModeAuto, s.extractor).Resolve(s.ctx, Input{Selfie: selfie, Front: front})
		s.Equal(SourceFrontFallback, res.Source)
		s.Equal(front, res.Image)
		s.Equal("no_faces", res.Details()[models.DetailExtractorReason])
		s.Equal(false, res.Details()[models.DetailPortraitUsed])
	})

	s.Run("not found without reason uses default", func() {
		s.extractor.EXPECT().ExtractPortrait(gomock.Any(), front).Return(detector.Portrait{}, nil)

		res := New(ModeAuto, s.extractor).Resolve(s.ctx, Input{Selfie: selfie, Front: front})
		s.Equal(ReasonNotFound, res.ExtractorReason)
	})

	s.Run("extractor error falls back to front", func() {
		s.extractor.EXPECT().ExtractPortrait(gomock.Any(), front).Return(detector.Portrait{}, errors.New("decode failed"))

		res := New(ModeAuto, s.extractor, WithLogger(s.logger)).Resolve(s.ctx, Input{Selfie: selfie, Front: front})
		s.Equal(SourceFrontFallback, res.Source)
		s.Contains(res.ExtractorReason, "decode failed")
	})

	s.Run("provided mode never calls extractor", func() {
		res := New(ModeProvided, s.extractor).Resolve(s.ctx, Input{Selfie: selfie, Front: front})
		s.Equal(SourceFrontFallback, res.Source)
		s.Empty(res.ExtractorReason)
	})
}

// =============================================================================
// None
// =============================================================================

func (s *ResolverSuite) TestNone() {
	s.Run("no selfie", func() {
		res := New(ModeAuto, s.extractor).Resolve(s.ctx, Input{Portrait: provided, Front: front})
		s.Equal(SourceNone, res.Source)
		s.False(res.Usable())
		s.Equal(map[string]any{"source": "none", "reason": models.ReasonNoSelfie}, res.Details())
	})

	s.Run("selfie only", func() {
		res := New(ModeAuto, s.extractor).Resolve(s.ctx, Input{Selfie: selfie})
		s.Equal(SourceNone, res.Source)
		s.Equal(models.ReasonNoDocImage, res.Details()[models.DetailReason])
	})

	s.Run("mode off ignores every image", func() {
		res := New(ModeOff, s.extractor).Resolve(s.ctx, Input{Selfie: selfie, Portrait: provided, Front: front})
		s.Equal(SourceNone, res.Source)
		s.Equal(ReasonModeOff, res.Reason)
	})
}

// =============================================================================
// Exhaustive combinations
// =============================================================================

type extractorKind int

const (
	noExtractor extractorKind = iota
	extractorFinds
	extractorFails
)

func (k extractorKind) String() string {
	return [...]string{"none", "finds", "fails"}[k]
}

type stubExtractor struct {
	kind  extractorKind
	calls int
}

func (e *stubExtractor) ExtractPortrait(_ context.Context, _ []byte) (detector.Portrait, error) {
	e.calls++
	if e.kind == extractorFails {
		return detector.Portrait{}, errors.New("boom")
	}
	return detector.Portrait{Image: crop, BBox: []int{0, 0, 1, 1}}, nil
}

func pick(present bool, v []byte) []byte {
	if present {
		return v
	}
	return nil
}

func expectedSource(mode Mode, hasSelfie, hasPortrait, hasFront bool, kind extractorKind) Source {
	if !hasSelfie || mode == ModeOff {
		return SourceNone
	}
	if hasPortrait {
		return SourceProvided
	}
	if !hasFront {
		return SourceNone
	}
	if mode == ModeAuto && kind == extractorFinds {
		return SourceAuto
	}
	return SourceFrontFallback
}

func TestResolveAllCombinations(t *testing.T) {
	bools := []bool{false, true}
	for _, mode := range []Mode{ModeAuto, ModeProvided, ModeOff} {
		for _, kind := range []extractorKind{noExtractor, extractorFinds, extractorFails} {
			for _, hasSelfie := range bools {
				for _, hasPortrait := range bools {
					for _, hasFront := range bools {
						name := fmt.Sprintf("%s/extractor=%s/selfie=%t/portrait=%t/front=%t", mode, kind, hasSelfie, hasPortrait, hasFront)
						t.Run(name, func(t *testing.T) {
							var ext detector.PortraitExtractor
							stub := &stubExtractor{kind: kind}
							if kind != noExtractor {
								ext = stub
							}
							r := New(mode, ext, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
							in := Input{Selfie: pick(hasSelfie, selfie), Portrait: pick(hasPortrait, provided), Front: pick(hasFront, front)}

							first := r.Resolve(context.Background(), in)
							second := r.Resolve(context.Background(), in)
							require.Equal(t, first, second, "resolution must be deterministic")

							want := expectedSource(mode, hasSelfie, hasPortrait, hasFront, kind)
							assert.Equal(t, want, first.Source)
							assert.Equal(t, want != SourceNone, first.Usable())
							assert.Equal(t, string(want), first.Details()[models.DetailSource])

							extractorUsed := mode == ModeAuto && kind != noExtractor && hasSelfie && !hasPortrait && hasFront
							if extractorUsed {
								assert.Equal(t, 2, stub.calls)
							} else {
								assert.Zero(t, stub.calls)
							}
							if want == SourceFrontFallback {
								assert.Equal(t, front, first.Image)
								assert.Equal(t, kind == extractorFails && mode == ModeAuto, first.ExtractorReason != "")
							}
						})
					}
				}
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]Mode{"": ModeAuto, "AUTO": ModeAuto, " provided ": ModeProvided, "off": ModeOff} {
		got, err := ParseMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("sometimes")
	assert.Error(t, err)
}
