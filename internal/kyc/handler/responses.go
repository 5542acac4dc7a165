package handler

import (
	"encoding/json"

	"verigate/internal/kyc/models"
)

// CheckResult is the single-check response. Details travel as a JSON string.
type CheckResult struct {
	Type        models.CheckType `json:"type"`
	Score       *float64         `json:"score"`
	Passed      *bool            `json:"passed"`
	DetailsJSON string           `json:"detailsJson"`
}

// AggregateResponse is the aggregate decision response.
type AggregateResponse struct {
	RequestID string                `json:"requestId"`
	Decision  models.Decision       `json:"decision"`
	Reasons   []string              `json:"reasons"`
	Checks    []models.CheckOutcome `json:"checks"`
}

// PingResponse answers the liveness probe of the KYC API.
type PingResponse struct {
	Status string `json:"status"`
}

func toCheckResult(o models.CheckOutcome) (*CheckResult, error) {
	details := o.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return &CheckResult{Type: o.Type, Score: o.Score, Passed: o.Passed, DetailsJSON: string(raw)}, nil
}

func toAggregateResponse(d *models.AggregateDecision) *AggregateResponse {
	reasons := d.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return &AggregateResponse{
		RequestID: d.RequestID,
		Decision:  d.Decision,
		Reasons:   reasons,
		Checks:    d.Checks,
	}
}
