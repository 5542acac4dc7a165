package record

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/kyc/models"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func sampleDecision() *models.AggregateDecision {
	return &models.AggregateDecision{
		RequestID: "req-1",
		Decision:  models.DecisionUnderReview,
		Reasons:   []string{models.ReasonOCRQualityInsufficient, models.ReasonLivenessCheckFailed},
		Segment:   models.Segment{Country: "LK", DocClass: "NIC"},
		Checks: []models.CheckOutcome{
			{Type: models.CheckFaceMatch, Score: f(0.91234567), Passed: b(true)},
			{Type: models.CheckLiveness},
			{Type: models.CheckOCR, Score: f(0.5), Passed: b(false)},
			{Type: models.CheckDocClass, Score: f(1), Passed: b(true)},
		},
	}
}

func TestEncode(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 890, time.FixedZone("x", 3600))
	row := Encode(FromDecision(sampleDecision(), "pod-a", ts), false)

	assert.Equal(t, []string{
		"2025-03-04T04:06:07Z", "req-1", "pod-a", "LK", "NIC",
		"0.912346", "", "0.500000", "1.000000",
		"1", "", "0", "1",
		"UNDER_REVIEW", "ocr_quality_insufficient;liveness_check_failed",
	}, row)
	assert.Len(t, row, len(Columns))
}

func TestEncodeUnknownSegment(t *testing.T) {
	d := sampleDecision()
	d.Segment = models.Segment{}
	row := Encode(FromDecision(d, "", time.Unix(0, 0)), true)
	assert.Equal(t, "UNK", row[3])
	assert.Equal(t, "UNK", row[4])
	assert.Len(t, row, len(Columns)+1)
}

func TestRoundTrip(t *testing.T) {
	orig := FromDecision(sampleDecision(), "pod-a", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	orig.Label = LabelBad

	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(orig))
	require.NoError(t, w.Flush())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	assert.True(t, r.Labeled())
	got, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, orig.Timestamp, rec.Timestamp)
	assert.Equal(t, orig.Segment, rec.Segment)
	assert.Equal(t, orig.Decision, rec.Decision)
	assert.Equal(t, orig.Reasons, rec.Reasons)
	assert.Equal(t, LabelBad, rec.Label)
	for _, c := range models.AllChecks {
		if orig.Scores[c] == nil {
			assert.Nil(t, rec.Scores[c], c)
			assert.Nil(t, rec.Passed[c], c)
			continue
		}
		require.NotNil(t, rec.Scores[c], c)
		assert.InDelta(t, *orig.Scores[c], *rec.Scores[c], 1e-6, c)
		assert.Equal(t, *orig.Passed[c], *rec.Passed[c], c)
	}
}

func TestReaderToleratesLegacyHeader(t *testing.T) {
	in := "ts,request_id,instance_id,country,docClass,face_score,live_score,ocr_score,doc_score,face_pass,live_pass,ocr_pass,doc_pass,decision,reasons,label\n" +
		"2025-01-02T03:04:05Z,r1,i1,UNK,NIC,0.9,,0.8,0.7,true,,1,0,REJECT,,human_ok\n"
	r, err := NewReader(strings.NewReader(in))
	require.NoError(t, err)
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, models.Segment{DocClass: "NIC"}, rec.Segment)
	assert.Equal(t, LabelGood, rec.Label)
	assert.Empty(t, rec.Reasons)
	v, ok := rec.Score(models.CheckFaceMatch)
	assert.True(t, ok)
	assert.Equal(t, 0.9, v)
	_, ok = rec.Score(models.CheckLiveness)
	assert.False(t, ok)
}

func TestReaderErrors(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	assert.Error(t, err)

	_, err = NewReader(strings.NewReader("ts,request_id\n"))
	assert.ErrorContains(t, err, "face_score")

	r, err := NewReader(strings.NewReader(strings.Join(Columns, ",") + "\n" + "x,r,i,LK,NIC,0.5,,,,,,,,APPROVE,\n"))
	require.NoError(t, err)
	_, err = r.Next()
	assert.ErrorContains(t, err, "row 2")
}

func TestReaderTreatsBadCellsAsAbsent(t *testing.T) {
	header := strings.Join(append(Columns, LabelColumn), ",")
	tests := []struct {
		name string
		face string
		pass string
	}{
		{"unparseable score", "n/a", "1"},
		{"NaN score", "NaN", "1"},
		{"infinite score", "+Inf", "1"},
		{"score above range", "1.5", "1"},
		{"negative score", "-0.1", "1"},
		{"unknown pass flag", "0.9", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := header + "\n" +
				"2025-01-02T03:04:05Z,r1,i1,LK,NIC,0.8,,,,1,,,,APPROVE,,GOOD\n" +
				"2025-01-02T03:04:06Z,r2,i1,LK,NIC," + tt.face + ",0.7,,," + tt.pass + ",1,,,APPROVE,,BAD\n"
			r, err := NewReader(strings.NewReader(in))
			require.NoError(t, err)

			got, err := r.ReadAll()
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, 1, r.Invalid())

			rec := got[1]
			assert.Equal(t, "r2", rec.RequestID)
			assert.Equal(t, LabelBad, rec.Label)
			live, ok := rec.Score(models.CheckLiveness)
			assert.True(t, ok)
			assert.Equal(t, 0.7, live)
			if tt.pass == "1" {
				assert.Nil(t, rec.Scores[models.CheckFaceMatch])
			} else {
				assert.Nil(t, rec.Passed[models.CheckFaceMatch])
			}
		})
	}
}

func TestParseLabel(t *testing.T) {
	for raw, want := range map[string]Label{
		"GOOD": LabelGood, "ok": LabelGood, "HUMAN_OK": LabelGood, " pos ": LabelGood,
		"bad": LabelBad, "FAIL": LabelBad, "human_fail": LabelBad, "NEG": LabelBad,
		"": LabelNone, "maybe": LabelNone,
	} {
		assert.Equal(t, want, ParseLabel(raw), raw)
	}
}

func TestDay(t *testing.T) {
	r := Record{Timestamp: time.Date(2025, 5, 6, 23, 30, 0, 0, time.FixedZone("x", -2*3600))}
	assert.Equal(t, time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC), r.Day())
}
