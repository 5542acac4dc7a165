package simple

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/models"
)

const (
	previewRunes     = 300
	baseTextQuality  = 0.6
	perFieldQuality  = 0.1
	longTextBonus    = 0.05
	longTextMinRunes = 30
	reasonNoText     = "no_text"
)

var (
	docNumberPattern = regexp.MustCompile(`\b([A-Z]{1,3}\s*\d{6,10}|\d{9}[VvXx]|\d{12})\b`)
	dobPattern       = regexp.MustCompile(`\b(\d{4}[-/.]\d{2}[-/.]\d{2})\b`)
	namePattern      = regexp.MustCompile(`(?i)\bname[:\s]+([A-Za-z ,.'-]{3,})`)
)

// errNoImages is returned when neither side of the document was supplied.
var errNoImages = errors.New("no document images")

// TextExtractor runs a TextRecognizer over the document sides and scores the
// result by how many identity fields it can parse.
type TextExtractor struct {
	recognizer detector.TextRecognizer
}

func NewTextExtractor(recognizer detector.TextRecognizer) *TextExtractor {
	return &TextExtractor{recognizer: recognizer}
}

func (t *TextExtractor) ExtractText(ctx context.Context, front, back []byte) (detector.Result, error) {
	text, err := recognizeSides(ctx, t.recognizer, front, back)
	if err != nil {
		return detector.Result{}, err
	}
	text = normalizeSpace(text)
	if text == "" {
		return detector.Result{
			Score: 0,
			Details: map[string]any{
				models.DetailReason:      reasonNoText,
				models.DetailTextPreview: "",
			},
		}, nil
	}

	fields := ParseFields(text)
	hits := 0
	details := map[string]any{models.DetailTextPreview: Preview(text)}
	for _, k := range []string{"docNumber", "dob", "name"} {
		if v, ok := fields[k]; ok {
			details[k] = v
			hits++
		} else {
			details[k] = nil
		}
	}
	score := baseTextQuality + perFieldQuality*float64(hits)
	if utf8.RuneCountInString(text) >= longTextMinRunes {
		score += longTextBonus
	}
	return detector.Result{Score: min(1, score), Details: details}, nil
}

// ParseFields pulls document number, date of birth and holder name out of
// normalized OCR text.
func ParseFields(text string) map[string]string {
	out := map[string]string{}
	if m := docNumberPattern.FindStringSubmatch(text); m != nil {
		out["docNumber"] = strings.ReplaceAll(m[1], " ", "")
	}
	if m := dobPattern.FindStringSubmatch(text); m != nil {
		out["dob"] = m[1]
	}
	if m := namePattern.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			out["name"] = name
		}
	}
	return out
}

// Preview truncates text to the preview length on a rune boundary.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes])
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func recognizeSides(ctx context.Context, rec detector.TextRecognizer, front, back []byte) (string, error) {
	if len(front) == 0 && len(back) == 0 {
		return "", errNoImages
	}
	var parts []string
	for _, side := range [][]byte{front, back} {
		if len(side) == 0 {
			continue
		}
		txt, err := rec.Recognize(ctx, side)
		if err != nil {
			return "", err
		}
		if txt = strings.TrimSpace(txt); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, "\n"), nil
}
