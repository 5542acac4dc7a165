// Package policy turns the four check outcomes of a request into a decision.
//
// The policy escalates by severity instead of weighting scores: any single
// unpassed check blocks APPROVE, and only a severe face or liveness score
// escalates to REJECT. A skipped check counts as unpassed.
package policy

import "verigate/internal/kyc/models"

// RejectFloor is the face/liveness score below which a request is rejected
// outright rather than routed to manual review.
const RejectFloor = 0.40

// rule pairs a check with the reason emitted when it did not pass. Order here
// is the order reasons appear in responses and audit rows.
type rule struct {
	check  models.CheckType
	reason string
}

var rules = []rule{
	{models.CheckDocClass, models.ReasonDocumentTypeUnconfirmed},
	{models.CheckOCR, models.ReasonOCRQualityInsufficient},
	{models.CheckFaceMatch, models.ReasonFaceMatchBelowThreshold},
	{models.CheckLiveness, models.ReasonLivenessCheckFailed},
}

// Decide applies the rule chain. This is pure domain logic - no I/O.
// Every applicable reason is collected; the returned slice is never nil.
func Decide(checks models.Outcomes) (models.Decision, []string) {
	reasons := []string{}
	for _, r := range rules {
		if !checks.Get(r.check).IsPassed() {
			reasons = append(reasons, r.reason)
		}
	}

	if len(reasons) == 0 {
		return models.DecisionApprove, reasons
	}

	if belowFloor(checks.Get(models.CheckFaceMatch)) || belowFloor(checks.Get(models.CheckLiveness)) {
		return models.DecisionReject, reasons
	}
	return models.DecisionUnderReview, reasons
}

// belowFloor never triggers on a missing score.
func belowFloor(o models.CheckOutcome) bool {
	return o.Score != nil && *o.Score < RejectFloor
}

// Severity orders decisions from least to most restrictive.
func Severity(d models.Decision) int {
	switch d {
	case models.DecisionApprove:
		return 0
	case models.DecisionUnderReview:
		return 1
	default:
		return 2
	}
}
