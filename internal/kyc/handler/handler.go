package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"verigate/internal/kyc/models"
	"verigate/internal/kyc/service"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/httputil"
	"verigate/pkg/requestcontext"
)

// Service defines the interface for KYC operations.
type Service interface {
	Aggregate(ctx context.Context, req service.Request) *models.AggregateDecision
	FaceMatch(ctx context.Context, req service.Request) (models.CheckOutcome, error)
	Liveness(ctx context.Context, selfie []byte) (models.CheckOutcome, error)
	ExtractText(ctx context.Context, req service.Request) (models.CheckOutcome, error)
	ClassifyDocument(ctx context.Context, req service.Request) (models.CheckOutcome, error)
}

// Handler handles the KYC endpoints.
type Handler struct {
	logger *slog.Logger
	kyc    Service
}

// New creates a new KYC Handler.
func New(kyc Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, kyc: kyc}
}

// Register registers the KYC routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/kyc/ping", h.handlePing)
	r.Post("/kyc/face/match", h.handleFaceMatch)
	r.Post("/kyc/liveness", h.handleLiveness)
	r.Post("/kyc/ocr/id", h.handleOCR)
	r.Post("/kyc/doc/class", h.handleDocClass)
	r.Post("/kyc/aggregate", h.handleAggregate)
}

func (h *Handler) handlePing(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, PingResponse{Status: "ok"})
}

// handleAggregate runs every check and always answers 200 once the body is
// well formed; missing images only skip checks.
func (h *Handler) handleAggregate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ImagesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision := h.kyc.Aggregate(ctx, req.toService())
	httputil.WriteJSON(w, http.StatusOK, toAggregateResponse(decision))
}

func (h *Handler) handleFaceMatch(w http.ResponseWriter, r *http.Request) {
	h.handleCheck(w, r, "face match", h.kyc.FaceMatch)
}

func (h *Handler) handleLiveness(w http.ResponseWriter, r *http.Request) {
	h.handleCheck(w, r, "liveness", func(ctx context.Context, req service.Request) (models.CheckOutcome, error) {
		return h.kyc.Liveness(ctx, req.Selfie)
	})
}

func (h *Handler) handleOCR(w http.ResponseWriter, r *http.Request) {
	h.handleCheck(w, r, "ocr", h.kyc.ExtractText)
}

func (h *Handler) handleDocClass(w http.ResponseWriter, r *http.Request) {
	h.handleCheck(w, r, "doc class", h.kyc.ClassifyDocument)
}

func (h *Handler) handleCheck(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	run func(context.Context, service.Request) (models.CheckOutcome, error),
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ImagesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := run(ctx, req.toService())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodePreconditionFailed) {
			h.logger.WarnContext(ctx, "check input missing",
				"request_id", requestID,
				"check", name,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "check failed",
			"request_id", requestID,
			"check", name,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "check failed"))
		return
	}

	res, err := toCheckResult(outcome)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode check details",
			"request_id", requestID,
			"check", name,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode details"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
