// Package detector defines the scoring capabilities the verification pipeline
// consumes. Each capability has exactly one method; concrete backends live in
// sub-packages and are selected once at start-up (see package backends).
//
// Implementations must be safe for concurrent use across requests. A backend
// that is not reentrant must be serialized before it is placed in a Set (see
// ExclusiveFace); the pipeline does not serialize calls itself.
//
// A returned error means "no score": the pipeline records the check as skipped
// with the error text in its details. Timeouts surface the same way.
package detector

import (
	"context"
	"errors"
)

// Result is one score in [0,1] plus backend-specific details.
type Result struct {
	Score   float64
	Details map[string]any
}

// FaceMatcher scores how likely selfie and reference show the same person.
type FaceMatcher interface {
	Match(ctx context.Context, selfie, reference []byte) (Result, error)
}

// LivenessDetector scores how likely selfie is a live capture.
type LivenessDetector interface {
	ScoreLiveness(ctx context.Context, selfie []byte) (Result, error)
}

// TextExtractor reads identity-document text and scores its quality. Either
// side may be nil. Details should include "textPreview".
type TextExtractor interface {
	ExtractText(ctx context.Context, front, back []byte) (Result, error)
}

// DocumentClassifier scores how confidently the images are a known identity
// document. Details may include "class" and "country".
type DocumentClassifier interface {
	Classify(ctx context.Context, front, back []byte) (Result, error)
}

// Portrait is the outcome of a portrait extraction attempt. Image is nil when
// nothing was found, in which case Reason says why.
type Portrait struct {
	Image  []byte
	BBox   []int
	Method string
	Reason string
}

// Found reports whether a crop was produced.
func (p Portrait) Found() bool { return len(p.Image) > 0 }

// PortraitExtractor crops the holder portrait out of a document front.
type PortraitExtractor interface {
	ExtractPortrait(ctx context.Context, front []byte) (Portrait, error)
}

// TextRecognizer turns one image into raw text (an OCR engine).
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Set holds one instance per capability. Portrait is optional; nil disables
// automatic portrait extraction.
type Set struct {
	Face     FaceMatcher
	Liveness LivenessDetector
	Text     TextExtractor
	DocClass DocumentClassifier
	Portrait PortraitExtractor
}

// Validate checks the four required capabilities are present.
func (s *Set) Validate() error {
	if s == nil {
		return errors.New("detector set is required")
	}
	var missing []error
	if s.Face == nil {
		missing = append(missing, errors.New("face matcher is required"))
	}
	if s.Liveness == nil {
		missing = append(missing, errors.New("liveness detector is required"))
	}
	if s.Text == nil {
		missing = append(missing, errors.New("text extractor is required"))
	}
	if s.DocClass == nil {
		missing = append(missing, errors.New("document classifier is required"))
	}
	return errors.Join(missing...)
}
