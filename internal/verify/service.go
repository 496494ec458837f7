package verify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"veridoc/internal/verify/metrics"
	dErrors "veridoc/pkg/domain-errors"
	"veridoc/pkg/platform/audit"
	"veridoc/pkg/platform/sentinel"
	"veridoc/pkg/requestcontext"
)

// ReportStore persists verification reports. Implementations live in the
// store subpackage; they return sentinel.ErrNotFound for unknown IDs.
type ReportStore interface {
	Save(ctx context.Context, report Report) error
	FindByID(ctx context.Context, id uuid.UUID) (Report, error)
}

// Service runs verifications and persists their reports.
type Service struct {
	store     ReportStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
	tracer    trace.Tracer
}

// ServiceOption configures optional Service dependencies.
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithMetrics enables verification metrics.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher publishes an audit event per verification run.
func WithAuditPublisher(p audit.Publisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// NewService constructs the verification service.
func NewService(store ReportStore, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "report store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("veridoc/verify"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Verify builds a report for the request and persists it. Both field maps
// must be non-empty; missing or low-confidence values inside them are
// ordinary report content, never errors.
func (s *Service) Verify(ctx context.Context, req Request) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "verify.Verify",
		trace.WithAttributes(
			attribute.String("doc_type", req.DocumentType),
			attribute.Int("submitted_fields", len(req.SubmittedData)),
		))
	defer span.End()

	if len(req.ExtractedData) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "extracted data is required")
	}
	if len(req.SubmittedData) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "submitted data is required")
	}

	start := time.Now()

	report := BuildReport(req.ExtractedData, req.SubmittedData)
	report.ID = uuid.New()
	report.DocumentType = req.DocumentType
	report.CreatedAt = requestcontext.Now(ctx)

	if err := s.store.Save(ctx, report); err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist report")
	}

	s.metrics.IncrementVerification(outcome(report))
	s.metrics.ObserveOverallConfidence(report.OverallConfidence)
	s.metrics.ObserveVerifyLatency(time.Since(start))

	audit.Log(ctx, s.logger, s.publisher, "verification.completed", map[string]any{
		"report_id":          report.ID.String(),
		"doc_type":           report.DocumentType,
		"total_fields":       report.TotalFields,
		"matched_fields":     report.MatchedFields,
		"overall_confidence": report.OverallConfidence,
	})

	s.logger.InfoContext(ctx, "verification completed",
		"request_id", requestcontext.RequestID(ctx),
		"report_id", report.ID,
		"doc_type", report.DocumentType,
		"total_fields", report.TotalFields,
		"matched_fields", report.MatchedFields,
		"overall_confidence", report.OverallConfidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &report, nil
}

// GetReport fetches a stored report by ID.
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	ctx, span := s.tracer.Start(ctx, "verify.GetReport")
	defer span.End()

	report, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "report not found")
	}
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load report")
	}
	return &report, nil
}

func outcome(report Report) string {
	switch report.MatchedFields {
	case report.TotalFields:
		return "all_matched"
	case 0:
		return "none_matched"
	default:
		return "partial"
	}
}
