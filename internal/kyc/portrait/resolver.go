// Package portrait picks the image a selfie is compared against.
//
// Fallback order, first match wins:
//
//	mode=off or no selfie            -> none
//	portrait supplied                -> provided
//	mode=auto, front, extractor      -> auto (crop) or front_fallback (extractor failed)
//	front supplied                   -> front_fallback
//	otherwise                        -> none
package portrait

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/models"
)

// Mode is the process-wide portrait policy.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeProvided Mode = "provided"
	ModeOff      Mode = "off"
)

// ParseMode accepts auto, provided or off, case-insensitively. Empty is auto.
func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeProvided, ModeOff:
		return m, nil
	default:
		return "", fmt.Errorf("invalid portrait mode %q (allowed: auto, provided, off)", raw)
	}
}

// Source records where the comparison image came from.
type Source string

const (
	SourceProvided      Source = "provided"
	SourceAuto          Source = "auto"
	SourceFrontFallback Source = "front_fallback"
	SourceNone          Source = "none"
)

// Reasons attached to a none resolution or a failed extraction.
const (
	ReasonModeOff         = "portrait_mode_off"
	ReasonNotFound        = "portrait_not_found"
	ReasonExtractorFailed = "extractor_error"
)

// Input carries the request images relevant to face matching. Nil or empty
// slices are absent.
type Input struct {
	Selfie   []byte
	Portrait []byte
	Front    []byte
}

// Resolution is the chosen comparison image and how it was chosen.
type Resolution struct {
	Image           []byte
	Source          Source
	BBox            []int
	Method          string
	ExtractorReason string
	Reason          string
}

// Usable reports whether face matching can run.
func (r Resolution) Usable() bool {
	return r.Source != SourceNone && len(r.Image) > 0
}

// Details renders the resolution for the face check details map.
func (r Resolution) Details() map[string]any {
	d := map[string]any{models.DetailSource: string(r.Source)}
	if r.Source == SourceNone {
		d[models.DetailReason] = r.Reason
		return d
	}
	d[models.DetailPortraitUsed] = r.Source == SourceProvided || r.Source == SourceAuto
	if len(r.BBox) > 0 {
		d[models.DetailPortraitBBox] = r.BBox
	}
	if r.Method != "" {
		d["portrait_method"] = r.Method
	}
	if r.ExtractorReason != "" {
		d[models.DetailExtractorReason] = r.ExtractorReason
	}
	return d
}

// Resolver applies the fallback order for a fixed mode and extractor.
type Resolver struct {
	mode      Mode
	extractor detector.PortraitExtractor
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver. A nil extractor disables automatic extraction.
func New(mode Mode, extractor detector.PortraitExtractor, opts ...Option) *Resolver {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Resolver{mode: mode, extractor: extractor, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve never fails; extractor errors degrade to front_fallback.
func (r *Resolver) Resolve(ctx context.Context, in Input) Resolution {
	switch {
	case len(in.Selfie) == 0:
		return Resolution{Source: SourceNone, Reason: models.ReasonNoSelfie}
	case r.mode == ModeOff:
		return Resolution{Source: SourceNone, Reason: ReasonModeOff}
	case len(in.Portrait) > 0:
		return Resolution{Image: in.Portrait, Source: SourceProvided}
	case len(in.Front) == 0:
		return Resolution{Source: SourceNone, Reason: models.ReasonNoDocImage}
	case r.mode == ModeAuto && r.extractor != nil:
		return r.extract(ctx, in.Front)
	default:
		return Resolution{Image: in.Front, Source: SourceFrontFallback}
	}
}

func (r *Resolver) extract(ctx context.Context, front []byte) Resolution {
	p, err := r.extractor.ExtractPortrait(ctx, front)
	if err != nil {
		r.logger.WarnContext(ctx, "portrait extraction failed", "error", err)
		return Resolution{
			Image:           front,
			Source:          SourceFrontFallback,
			ExtractorReason: fmt.Sprintf("%s: %v", ReasonExtractorFailed, err),
		}
	}
	if !p.Found() {
		reason := p.Reason
		if reason == "" {
			reason = ReasonNotFound
		}
		return Resolution{
			Image:           front,
			Source:          SourceFrontFallback,
			Method:          p.Method,
			ExtractorReason: reason,
		}
	}
	return Resolution{Image: p.Image, Source: SourceAuto, BBox: p.BBox, Method: p.Method}
}
