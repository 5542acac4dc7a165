package models

// Decision is the aggregate verdict for an onboarding request.
type Decision string

const (
	DecisionApprove     Decision = "APPROVE"
	DecisionUnderReview Decision = "UNDER_REVIEW"
	DecisionReject      Decision = "REJECT"
)

// Reason codes, emitted in this order when several apply.
const (
	ReasonDocumentTypeUnconfirmed = "document_type_unconfirmed"
	ReasonOCRQualityInsufficient  = "ocr_quality_insufficient"
	ReasonFaceMatchBelowThreshold = "face_match_below_threshold"
	ReasonLivenessCheckFailed     = "liveness_check_failed"
)

// AggregateDecision is the pipeline result. Reasons is empty exactly when
// Decision is APPROVE.
type AggregateDecision struct {
	RequestID string
	Decision  Decision
	Reasons   []string
	Segment   Segment
	Checks    []CheckOutcome
}
