package simple

import (
	"context"
	"regexp"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/models"
)

const (
	classNIC         = "NIC"
	baseDocScore     = 0.6
	perKeywordScore  = 0.1
	minKeywordsToTag = 2
)

// nicKeywords mark a Sri Lankan national identity card.
var nicKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)national\s+identity`),
	regexp.MustCompile(`(?i)identity\s+card`),
	regexp.MustCompile(`(?i)\bnic\b`),
	regexp.MustCompile(`(?i)department\s+of\s+registration`),
	regexp.MustCompile(`(?i)sri\s+lanka`),
}

// DocumentClassifier tags documents by keyword hits in their OCR text.
type DocumentClassifier struct {
	recognizer detector.TextRecognizer
	countries  models.CountryTokens
}

func NewDocumentClassifier(recognizer detector.TextRecognizer) *DocumentClassifier {
	return &DocumentClassifier{recognizer: recognizer, countries: models.KnownCountries}
}

func (d *DocumentClassifier) Classify(ctx context.Context, front, back []byte) (detector.Result, error) {
	text, err := recognizeSides(ctx, d.recognizer, front, back)
	if err != nil {
		return detector.Result{}, err
	}
	text = normalizeSpace(text)
	details := map[string]any{
		models.DetailDocClass:    nil,
		models.DetailCountry:     nil,
		models.DetailTextPreview: Preview(text),
	}
	if text == "" {
		details[models.DetailReason] = reasonNoText
		return detector.Result{Score: 0, Details: details}, nil
	}

	hits := 0
	for _, kw := range nicKeywords {
		if kw.MatchString(text) {
			hits++
		}
	}
	if hits >= minKeywordsToTag {
		details[models.DetailDocClass] = classNIC
	}
	if country, ok := d.countries.Infer(text); ok {
		details[models.DetailCountry] = country
	}
	details["keywordHits"] = hits
	return detector.Result{Score: min(1, baseDocScore+perKeywordScore*float64(hits)), Details: details}, nil
}
