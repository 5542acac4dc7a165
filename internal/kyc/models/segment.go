package models

import (
	"sort"
	"strings"
)

// UnknownSegmentValue stands in for an absent country or document class in
// audit rows and calibration groups.
const UnknownSegmentValue = "UNK"

// Segment scopes threshold overrides and calibration grouping. Empty fields are
// absent.
type Segment struct {
	Country  string
	DocClass string
}

// CountryOrUnknown returns the country or UNK.
func (s Segment) CountryOrUnknown() string { return orUnknown(s.Country) }

// DocClassOrUnknown returns the document class or UNK.
func (s Segment) DocClassOrUnknown() string { return orUnknown(s.DocClass) }

func orUnknown(v string) string {
	if v == "" {
		return UnknownSegmentValue
	}
	return v
}

// SegmentFromColumns rebuilds a Segment from audit columns, mapping UNK back to
// absent so that request-time and audit-time segments compare equal.
func SegmentFromColumns(country, docClass string) Segment {
	norm := func(v string) string {
		v = strings.TrimSpace(v)
		if strings.EqualFold(v, UnknownSegmentValue) {
			return ""
		}
		return v
	}
	return Segment{Country: norm(country), DocClass: norm(docClass)}
}

// CountryTokens maps a lower-case country-name token to its ISO code.
type CountryTokens map[string]string

// KnownCountries is the token table used for the OCR text fallback.
var KnownCountries = CountryTokens{
	"sri lanka": "LK",
}

// Infer searches text case-insensitively for a known country token. It returns
// a code only when every matching token agrees on the same country.
func (t CountryTokens) Infer(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	found := map[string]struct{}{}
	for token, code := range t {
		if strings.Contains(lower, token) {
			found[code] = struct{}{}
		}
	}
	if len(found) != 1 {
		return "", false
	}
	codes := make([]string, 0, 1)
	for code := range found {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes[0], true
}

// Segment derives the request segment from the DOC_CLASS outcome, falling back
// to one country inference over the OCR preview text when DOC_CLASS set none.
func (t CountryTokens) Segment(doc, ocr CheckOutcome) Segment {
	var seg Segment
	if c, ok := doc.StringDetail(DetailCountry); ok {
		seg.Country = c
	}
	if d, ok := doc.StringDetail(DetailDocClass); ok {
		seg.DocClass = d
	}
	if seg.Country == "" {
		if preview, ok := ocr.StringDetail(DetailTextPreview); ok {
			if c, ok := t.Infer(preview); ok {
				seg.Country = c
			}
		}
	}
	return seg
}

// DeriveSegment applies KnownCountries.Segment.
func DeriveSegment(doc, ocr CheckOutcome) Segment {
	return KnownCountries.Segment(doc, ocr)
}
