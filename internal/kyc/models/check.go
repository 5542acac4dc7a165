package models

// CheckType identifies one of the four verification checks.
type CheckType string

const (
	CheckFaceMatch CheckType = "FACE_MATCH"
	CheckLiveness  CheckType = "LIVENESS"
	CheckOCR       CheckType = "OCR_ID"
	CheckDocClass  CheckType = "DOC_CLASS"
)

// AllChecks lists the checks in response and audit order.
var AllChecks = []CheckType{CheckFaceMatch, CheckLiveness, CheckOCR, CheckDocClass}

// ThresholdName is the check's token in threshold override keys
// (e.g. APP_FACE_THRESHOLD__LK__NIC).
func (c CheckType) ThresholdName() string {
	switch c {
	case CheckFaceMatch:
		return "FACE"
	case CheckLiveness:
		return "LIVE"
	case CheckOCR:
		return "OCR"
	case CheckDocClass:
		return "DOC"
	default:
		return string(c)
	}
}

// ColumnName is the check's short name in audit record column headers.
func (c CheckType) ColumnName() string {
	switch c {
	case CheckFaceMatch:
		return "face"
	case CheckLiveness:
		return "live"
	case CheckOCR:
		return "ocr"
	case CheckDocClass:
		return "doc"
	default:
		return string(c)
	}
}

// Detail keys shared between detectors, the pipeline and the audit trail.
const (
	DetailThreshold        = "threshold"
	DetailError            = "error"
	DetailReason           = "reason"
	DetailSource           = "source"
	DetailPortraitUsed     = "portrait_used"
	DetailPortraitBBox     = "portrait_bbox"
	DetailExtractorReason  = "portrait_extractor_reason"
	DetailDocClass         = "class"
	DetailCountry          = "country"
	DetailTextPreview      = "textPreview"
	ReasonNoSelfie         = "no_selfie"
	ReasonNoDocImage       = "no_doc_image"
	ReasonNoDocumentImages = "no_document_images"
)

// CheckOutcome is the result of one check for one request. Score and Passed are
// both nil when the check was skipped or its detector failed.
type CheckOutcome struct {
	Type    CheckType      `json:"type"`
	Score   *float64       `json:"score"`
	Passed  *bool          `json:"passed"`
	Details map[string]any `json:"details"`
}

// Skipped builds an outcome for a check that could not run.
func Skipped(t CheckType, details map[string]any) CheckOutcome {
	if details == nil {
		details = map[string]any{}
	}
	return CheckOutcome{Type: t, Details: details}
}

// Scored builds an outcome for an executed check; Passed is set later, once the
// segment threshold is known.
func Scored(t CheckType, score float64, details map[string]any) CheckOutcome {
	if details == nil {
		details = map[string]any{}
	}
	return CheckOutcome{Type: t, Score: &score, Details: details}
}

// Ran reports whether the check produced a score.
func (o CheckOutcome) Ran() bool { return o.Score != nil }

// IsPassed reports an explicit pass; skipped checks are not passed.
func (o CheckOutcome) IsPassed() bool { return o.Passed != nil && *o.Passed }

// WithThreshold returns a copy with Passed evaluated against thr and the
// threshold recorded in the details. Skipped outcomes keep a nil Passed.
func (o CheckOutcome) WithThreshold(thr float64) CheckOutcome {
	details := make(map[string]any, len(o.Details)+1)
	for k, v := range o.Details {
		details[k] = v
	}
	out := CheckOutcome{Type: o.Type, Score: o.Score, Details: details}
	if o.Score != nil {
		passed := *o.Score >= thr
		out.Passed = &passed
		details[DetailThreshold] = thr
	}
	return out
}

// StringDetail returns a non-empty string detail value.
func (o CheckOutcome) StringDetail(key string) (string, bool) {
	v, ok := o.Details[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Outcomes indexes the four outcomes of one request.
type Outcomes map[CheckType]CheckOutcome

// Get returns the outcome for t, or a skipped outcome if absent.
func (o Outcomes) Get(t CheckType) CheckOutcome {
	if out, ok := o[t]; ok {
		return out
	}
	return Skipped(t, nil)
}

// Ordered returns the outcomes in AllChecks order.
func (o Outcomes) Ordered() []CheckOutcome {
	out := make([]CheckOutcome, 0, len(AllChecks))
	for _, t := range AllChecks {
		out = append(out, o.Get(t))
	}
	return out
}
