package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"verigate/internal/kyc/handler/mocks"
	"verigate/internal/kyc/models"
	"verigate/internal/kyc/service"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/middleware/requestid"
	"verigate/pkg/requestcontext"
	"verigate/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/kyc-mocks.go -package=mocks Service
type KYCHandlerSuite struct {
	suite.Suite
	router  chi.Router
	service *mocks.MockService
}

func TestKYCHandlerSuite(t *testing.T) {
	suite.Run(t, new(KYCHandlerSuite))
}

func (s *KYCHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	New(s.service, logger).Register(r)
	s.router = r
}

func ptr[T any](v T) *T { return &v }

func (s *KYCHandlerSuite) TestPing() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/kyc/ping"))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "status", "ok")
}

// =============================================================================
// Aggregate
// =============================================================================

func (s *KYCHandlerSuite) TestAggregate() {
	s.Run("returns decision and echoes request id", func() {
		s.service.EXPECT().Aggregate(gomock.Any(), service.Request{
			Selfie: []byte("selfie"),
			Front:  []byte("new-front"),
		}).DoAndReturn(func(ctx context.Context, _ service.Request) *models.AggregateDecision {
			return &models.AggregateDecision{
				RequestID: requestcontext.RequestID(ctx),
				Decision:  models.DecisionUnderReview,
				Reasons:   []string{models.ReasonDocumentTypeUnconfirmed},
				Checks: []models.CheckOutcome{
					models.Scored(models.CheckFaceMatch, 0.9, nil).WithThreshold(0.85),
					models.Skipped(models.CheckLiveness, map[string]any{"reason": "no_selfie"}),
				},
			}
		})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/kyc/aggregate", ImagesRequest{
			Selfie:        []byte("selfie"),
			DocFront:      []byte("old-front"),
			DocFrontImage: []byte("new-front"),
		})
		req.Header.Set(requestid.Header, "abc-123")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		s.Equal("abc-123", rr.Header().Get(requestid.Header))
		body := testutil.UnmarshalResponse[AggregateResponse](s.T(), rr)
		s.Equal("abc-123", body.RequestID)
		s.Equal(models.DecisionUnderReview, body.Decision)
		s.Equal([]string{models.ReasonDocumentTypeUnconfirmed}, body.Reasons)
		s.Require().Len(body.Checks, 2)
		s.Nil(body.Checks[1].Score)
		s.Nil(body.Checks[1].Passed)
	})

	s.Run("legacy docFront is used when docFrontImage is absent", func() {
		s.service.EXPECT().Aggregate(gomock.Any(), service.Request{Front: []byte("old-front")}).
			Return(&models.AggregateDecision{Decision: models.DecisionUnderReview})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/kyc/aggregate", map[string]any{"docFront": []byte("old-front")})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		var raw map[string]json.RawMessage
		s.Require().NoError(json.Unmarshal(testutil.ReadBody(s.T(), rr), &raw))
		s.JSONEq(`[]`, string(raw["reasons"]))
	})

	s.Run("empty body still aggregates", func() {
		s.service.EXPECT().Aggregate(gomock.Any(), service.Request{}).
			Return(&models.AggregateDecision{Decision: models.DecisionUnderReview, Reasons: []string{}})

		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/kyc/aggregate", ""))
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("invalid base64 is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/kyc/aggregate", `{"selfie":"%%%"}`))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

// =============================================================================
// Single checks
// =============================================================================

func (s *KYCHandlerSuite) TestSingleChecks() {
	s.Run("face match returns details as json string", func() {
		out := models.Scored(models.CheckFaceMatch, 0.91, map[string]any{"source": "provided"}).WithThreshold(0.85)
		s.service.EXPECT().FaceMatch(gomock.Any(), service.Request{Selfie: []byte("a"), Portrait: []byte("b")}).Return(out, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/kyc/face/match", ImagesRequest{Selfie: []byte("a"), DocPortraitImage: []byte("b")})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		body := testutil.UnmarshalResponse[CheckResult](s.T(), rr)
		s.Equal(models.CheckFaceMatch, body.Type)
		s.Equal(ptr(0.91), body.Score)
		s.Equal(ptr(true), body.Passed)
		s.JSONEq(`{"source":"provided","threshold":0.85}`, body.DetailsJSON)
	})

	s.Run("liveness passes only the selfie", func() {
		s.service.EXPECT().Liveness(gomock.Any(), []byte("a")).
			Return(models.Scored(models.CheckLiveness, 0.5, nil).WithThreshold(0.8), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/kyc/liveness", ImagesRequest{Selfie: []byte("a"), DocBackImage: []byte("z")})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		body := testutil.UnmarshalResponse[CheckResult](s.T(), rr)
		s.Equal(ptr(false), body.Passed)
	})

	s.Run("missing input is a precondition failure", func() {
		s.service.EXPECT().ExtractText(gomock.Any(), service.Request{}).
			Return(models.CheckOutcome{}, dErrors.New(dErrors.CodePreconditionFailed, "docFrontImage or docBackImage is required"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/kyc/ocr/id", ImagesRequest{}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodePreconditionFailed))
	})

	s.Run("unexpected error is internal without description", func() {
		s.service.EXPECT().ClassifyDocument(gomock.Any(), gomock.Any()).
			Return(models.CheckOutcome{}, errors.New("secret detail"))

		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/kyc/doc/class", ImagesRequest{DocFrontImage: []byte("f")}))
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		s.NotContains(rr.Body.String(), "secret detail")
	})
}
