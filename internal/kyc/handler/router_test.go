package handler

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/calibration/record"
	"verigate/internal/calibration/recorder"
	"verigate/internal/calibration/store"
	"verigate/internal/kyc/detector"
	"verigate/internal/kyc/detector/imaging"
	"verigate/internal/kyc/detector/simple"
	"verigate/internal/kyc/models"
	"verigate/internal/kyc/portrait"
	"verigate/internal/kyc/service"
	"verigate/internal/kyc/threshold"
	"verigate/pkg/platform/middleware/requestid"
	"verigate/pkg/requestcontext"
	"verigate/pkg/testutil"
)

type staticText string

func (s staticText) Recognize(context.Context, []byte) (string, error) { return string(s), nil }

func checkerPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 96, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			c := color.RGBA{R: 20, G: 30, B: 40, A: 255}
			if (x/2+y/2)%2 == 0 {
				c = color.RGBA{R: 250, G: 200, B: 30, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	data, err := imaging.EncodePNG(img)
	require.NoError(t, err)
	return data
}

// TestAggregateScenario runs the real pipeline with the built-in backends and
// a synchronous calibration log behind the router.
func TestAggregateScenario(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	testutil.Given(t, "a router over the built-in detectors with calibration logging", func(t *testing.T) {
		text := staticText("DEMOCRATIC SOCIALIST REPUBLIC OF SRI LANKA NATIONAL IDENTITY CARD No AB1234567")
		set := &detector.Set{
			Face:     simple.NewFaceMatcher(),
			Liveness: simple.NewLivenessDetector(),
			Text:     simple.NewTextExtractor(text),
			DocClass: simple.NewDocumentClassifier(text),
			Portrait: simple.NewPortraitExtractor(0, 0.2),
		}
		days, err := store.NewDayFile(t.TempDir())
		require.NoError(t, err)
		rec := recorder.New(days, recorder.WithQueueSize(0), recorder.WithInstanceID("test"), recorder.WithLogger(logger))

		svc, err := service.New(set,
			portrait.New(portrait.ModeAuto, set.Portrait),
			threshold.New("APP", threshold.StandardDefaults(), nil),
			service.WithLogger(logger),
			service.WithRecorder(rec),
		)
		require.NoError(t, err)

		r := chi.NewRouter()
		r.Use(requestid.Middleware)
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(requestcontext.WithTime(req.Context(), now)))
			})
		})
		New(svc, logger).Register(r)

		testutil.When(t, "a selfie arrives without document images", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/kyc/aggregate", ImagesRequest{Selfie: checkerPNG(t)})
			req.Header.Set(requestid.Header, "scenario-1")
			rr := testutil.DoRequest(r, req)

			testutil.Then(t, "the request is sent to review with the face check skipped", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertHeader(t, rr, requestid.Header, "scenario-1")

				resp := testutil.UnmarshalResponse[AggregateResponse](t, rr)
				assert.Equal(t, "scenario-1", resp.RequestID)
				assert.NotEqual(t, models.DecisionApprove, resp.Decision)
				require.Len(t, resp.Checks, 4)
				assert.Nil(t, resp.Checks[0].Score)
				assert.Equal(t, "none", resp.Checks[0].Details[models.DetailSource])
			})

			testutil.And(t, "one audit row is written for the request", func(t *testing.T) {
				f, err := os.Open(days.Path(now))
				require.NoError(t, err)
				defer f.Close()
				rd, err := record.NewReader(f)
				require.NoError(t, err)
				recs, err := rd.ReadAll()
				require.NoError(t, err)
				require.Len(t, recs, 1)
				assert.Equal(t, "scenario-1", recs[0].RequestID)
				assert.Equal(t, "test", recs[0].InstanceID)
				assert.Equal(t, now, recs[0].Timestamp)
				assert.Nil(t, recs[0].Scores[models.CheckFaceMatch])
			})
		})

		testutil.When(t, "the body is not JSON", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPost, "/kyc/aggregate", "{not json"))

			testutil.Then(t, "it is rejected as a bad request", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusBadRequest)
				testutil.AssertErrorDescription(t, rr, "invalid JSON body")
			})
		})
	})
}
