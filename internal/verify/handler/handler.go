package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"veridoc/internal/verify"
	dErrors "veridoc/pkg/domain-errors"
	"veridoc/pkg/platform/httputil"
	"veridoc/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	Verify(ctx context.Context, req verify.Request) (*verify.Report, error)
	GetReport(ctx context.Context, id uuid.UUID) (*verify.Report, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verification/verify", h.HandleVerify)
	r.Get("/verification/reports/{id}", h.HandleGetReport)
}

// HandleVerify handles POST /v1/verification/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.Verify(ctx, req.DomainRequest())
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"doc_type", req.DocumentType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification request served",
		"request_id", requestID,
		"report_id", report.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromReport(report))
}

// HandleGetReport handles GET /v1/verification/reports/{id} requests.
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid report id"))
		return
	}

	report, err := h.service.GetReport(ctx, id)
	if err != nil {
		if dErrors.CodeOf(err) != dErrors.CodeNotFound {
			h.logger.ErrorContext(ctx, "report fetch failed",
				"request_id", requestcontext.RequestID(ctx),
				"report_id", id,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromReport(report))
}
