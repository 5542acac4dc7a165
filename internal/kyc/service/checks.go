package service

import (
	"context"

	"verigate/internal/kyc/models"
	dErrors "verigate/pkg/domain-errors"
)

// The single-check operations mirror one aggregate check each. Unlike
// Aggregate, a missing required input is a precondition error. The segment is
// whatever the check itself reveals; face and liveness always use the global
// threshold.

// FaceMatch compares the selfie with the resolved portrait.
func (s *Service) FaceMatch(ctx context.Context, req Request) (models.CheckOutcome, error) {
	if len(req.Selfie) == 0 {
		return models.CheckOutcome{}, dErrors.New(dErrors.CodePreconditionFailed, "selfie is required")
	}
	if len(req.Portrait) == 0 && len(req.Front) == 0 {
		return models.CheckOutcome{}, dErrors.New(dErrors.CodePreconditionFailed, "docPortraitImage or docFrontImage is required")
	}
	out := s.faceOutcome(ctx, req.Selfie, req.Portrait, req.Front)
	if !out.Ran() && out.Details[models.DetailError] == nil {
		reason, _ := out.StringDetail(models.DetailReason)
		return models.CheckOutcome{}, dErrors.New(dErrors.CodePreconditionFailed, "no comparison image available: "+reason)
	}
	return s.finish(out, models.Segment{}), nil
}

// Liveness scores the selfie.
func (s *Service) Liveness(ctx context.Context, selfie []byte) (models.CheckOutcome, error) {
	if len(selfie) == 0 {
		return models.CheckOutcome{}, dErrors.New(dErrors.CodePreconditionFailed, "selfie is required")
	}
	return s.finish(s.livenessOutcome(ctx, selfie), models.Segment{}), nil
}

// ExtractText runs OCR over the document sides.
func (s *Service) ExtractText(ctx context.Context, req Request) (models.CheckOutcome, error) {
	if !req.hasDocument() {
		return models.CheckOutcome{}, dErrors.New(dErrors.CodePreconditionFailed, "docFrontImage or docBackImage is required")
	}
	out := s.textOutcome(ctx, req)
	return s.finish(out, s.countries.Segment(models.Skipped(models.CheckDocClass, nil), out)), nil
}

// ClassifyDocument classifies the document.
func (s *Service) ClassifyDocument(ctx context.Context, req Request) (models.CheckOutcome, error) {
	if !req.hasDocument() {
		return models.CheckOutcome{}, dErrors.New(dErrors.CodePreconditionFailed, "docFrontImage or docBackImage is required")
	}
	out := s.docClassOutcome(ctx, req)
	return s.finish(out, s.countries.Segment(out, out)), nil
}

func (s *Service) finish(o models.CheckOutcome, seg models.Segment) models.CheckOutcome {
	o = s.applyThreshold(o, seg)
	s.metrics.IncrementCheckOutcome(string(o.Type), resultLabel(o))
	return o
}
