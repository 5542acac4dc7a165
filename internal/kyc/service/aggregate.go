package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/metrics"
	"verigate/internal/kyc/models"
	"verigate/internal/kyc/policy"
	"verigate/internal/kyc/portrait"
	"verigate/pkg/requestcontext"
)

// Aggregate runs all four checks and decides. It never fails: missing inputs
// skip a check and detector failures are isolated to their own outcome.
//
// The checks run in parallel. Thresholds are applied only after every check,
// DOC_CLASS and OCR_ID included, has finished because the segment that selects
// them is derived from those two outcomes.
func (s *Service) Aggregate(ctx context.Context, req Request) *models.AggregateDecision {
	start := time.Now()
	requestID := requestcontext.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	var face, live, ocr, doc models.CheckOutcome
	var g errgroup.Group
	g.Go(func() error {
		face = s.faceOutcome(ctx, req.Selfie, req.Portrait, req.Front)
		return nil
	})
	g.Go(func() error {
		live = s.livenessOutcome(ctx, req.Selfie)
		return nil
	})
	g.Go(func() error {
		ocr = s.textOutcome(ctx, req)
		return nil
	})
	g.Go(func() error {
		doc = s.docClassOutcome(ctx, req)
		return nil
	})
	_ = g.Wait()

	seg := s.countries.Segment(doc, ocr)
	outcomes := models.Outcomes{}
	for _, o := range []models.CheckOutcome{face, live, ocr, doc} {
		o = s.applyThreshold(o, seg)
		outcomes[o.Type] = o
		s.metrics.IncrementCheckOutcome(string(o.Type), resultLabel(o))
	}

	decision, reasons := policy.Decide(outcomes)
	result := &models.AggregateDecision{
		RequestID: requestID,
		Decision:  decision,
		Reasons:   reasons,
		Segment:   seg,
		Checks:    outcomes.Ordered(),
	}

	s.metrics.IncrementDecision(string(decision))
	s.metrics.ObserveAggregateLatency(time.Since(start))
	s.logger.InfoContext(ctx, "aggregate decision",
		"request_id", requestID,
		"decision", decision,
		"reasons", reasons,
		"country", seg.CountryOrUnknown(),
		"doc_class", seg.DocClassOrUnknown(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if s.recorder != nil {
		s.recorder.Record(ctx, result)
	}
	return result
}

func (s *Service) faceOutcome(ctx context.Context, selfie, provided, front []byte) models.CheckOutcome {
	res := s.portraits.Resolve(ctx, portrait.Input{Selfie: selfie, Portrait: provided, Front: front})
	if !res.Usable() {
		return models.Skipped(models.CheckFaceMatch, res.Details())
	}
	out := s.run(ctx, models.CheckFaceMatch, func(ctx context.Context) (detector.Result, error) {
		return s.detectors.Face.Match(ctx, selfie, res.Image)
	})
	for k, v := range res.Details() {
		out.Details[k] = v
	}
	return out
}

func (s *Service) livenessOutcome(ctx context.Context, selfie []byte) models.CheckOutcome {
	if len(selfie) == 0 {
		return models.Skipped(models.CheckLiveness, map[string]any{models.DetailReason: models.ReasonNoSelfie})
	}
	return s.run(ctx, models.CheckLiveness, func(ctx context.Context) (detector.Result, error) {
		return s.detectors.Liveness.ScoreLiveness(ctx, selfie)
	})
}

func (s *Service) textOutcome(ctx context.Context, req Request) models.CheckOutcome {
	if !req.hasDocument() {
		return models.Skipped(models.CheckOCR, map[string]any{models.DetailReason: models.ReasonNoDocumentImages})
	}
	return s.run(ctx, models.CheckOCR, func(ctx context.Context) (detector.Result, error) {
		return s.detectors.Text.ExtractText(ctx, req.Front, req.Back)
	})
}

func (s *Service) docClassOutcome(ctx context.Context, req Request) models.CheckOutcome {
	if !req.hasDocument() {
		return models.Skipped(models.CheckDocClass, map[string]any{models.DetailReason: models.ReasonNoDocumentImages})
	}
	return s.run(ctx, models.CheckDocClass, func(ctx context.Context) (detector.Result, error) {
		return s.detectors.DocClass.Classify(ctx, req.Front, req.Back)
	})
}

// run calls one detector. Errors, panics and out-of-range scores all become a
// skipped outcome carrying the error text.
func (s *Service) run(ctx context.Context, check models.CheckType, call func(context.Context) (detector.Result, error)) (out models.CheckOutcome) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveCheckLatency(string(check), time.Since(start))
		if r := recover(); r != nil {
			out = s.failed(ctx, check, fmt.Errorf("detector panic: %v", r))
		}
	}()

	res, err := call(ctx)
	if err != nil {
		return s.failed(ctx, check, err)
	}
	if math.IsNaN(res.Score) || res.Score < 0 || res.Score > 1 {
		return s.failed(ctx, check, fmt.Errorf("score %v out of range", res.Score))
	}
	details := make(map[string]any, len(res.Details)+1)
	for k, v := range res.Details {
		details[k] = v
	}
	return models.Scored(check, res.Score, details)
}

func (s *Service) failed(ctx context.Context, check models.CheckType, err error) models.CheckOutcome {
	s.logger.WarnContext(ctx, "detector failed",
		"request_id", requestcontext.RequestID(ctx),
		"check", check,
		"error", err,
	)
	return models.Skipped(check, map[string]any{models.DetailError: err.Error()})
}

func (s *Service) applyThreshold(o models.CheckOutcome, seg models.Segment) models.CheckOutcome {
	if !o.Ran() {
		return o
	}
	return o.WithThreshold(s.thresholds.Resolve(o.Type, seg))
}

func resultLabel(o models.CheckOutcome) string {
	switch {
	case o.Ran() && o.IsPassed():
		return metrics.ResultPassed
	case o.Ran():
		return metrics.ResultFailed
	case o.Details[models.DetailError] != nil:
		return metrics.ResultError
	default:
		return metrics.ResultSkipped
	}
}
