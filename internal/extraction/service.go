package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"veridoc/internal/doctype"
	"veridoc/internal/extraction/metrics"
	"veridoc/internal/ocr"
	dErrors "veridoc/pkg/domain-errors"
	"veridoc/pkg/requestcontext"
)

// recognizeConcurrency bounds parallel page recognition; tesseract is
// CPU-heavy and more parallelism than this degrades not helps.
const recognizeConcurrency = 4

// Service runs the extraction pipeline: recognize (when given images),
// locate fields, normalize, score.
type Service struct {
	registry *doctype.Registry
	engine   ocr.Engine
	cache    Cache
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// ServiceOption configures optional Service dependencies.
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithCache enables result caching for image extraction.
func WithCache(c Cache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithMetrics enables extraction metrics.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the extraction service. The registry is required;
// the engine may be nil for deployments that only accept pre-recognized
// text.
func NewService(registry *doctype.Registry, engine ocr.Engine, opts ...ServiceOption) (*Service, error) {
	if registry == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "doctype registry is required")
	}
	s := &Service{
		registry: registry,
		engine:   engine,
		logger:   slog.Default(),
		tracer:   otel.Tracer("veridoc/extraction"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// ExtractText runs extraction over already-recognized text.
func (s *Service) ExtractText(ctx context.Context, req Request) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "extraction.ExtractText",
		trace.WithAttributes(attribute.String("doc_type", req.DocumentType)))
	defer span.End()

	start := time.Now()
	res, err := s.extract(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.IncrementExtraction(req.DocumentType, "text")
	s.metrics.ObserveExtractLatency(time.Since(start))
	s.logger.InfoContext(ctx, "text extracted",
		"request_id", requestcontext.RequestID(ctx),
		"doc_type", req.DocumentType,
		"fields", len(res.Fields),
		"overall_confidence", res.Score.Overall,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// ExtractImages recognizes each page image and runs extraction over the
// combined result. Pages are recognized concurrently; their text is
// joined in page order.
func (s *Service) ExtractImages(ctx context.Context, req ImageRequest) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "extraction.ExtractImages",
		trace.WithAttributes(
			attribute.String("doc_type", req.DocumentType),
			attribute.Int("pages", len(req.ImagePaths)),
		))
	defer span.End()

	if s.engine == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "no recognition engine configured")
	}
	if len(req.ImagePaths) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one image is required")
	}

	start := time.Now()

	cacheKey, err := s.digest(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if res, ok := s.cacheGet(ctx, cacheKey); ok {
		return res, nil
	}

	pages := make([]ocr.Result, len(req.ImagePaths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recognizeConcurrency)
	for i, path := range req.ImagePaths {
		g.Go(func() error {
			pageStart := time.Now()
			page, err := s.engine.Recognize(gctx, path)
			s.metrics.ObserveRecognizeLatency(time.Since(pageStart))
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "recognition failed")
	}

	var (
		texts []string
		words []ocr.Word
	)
	for _, page := range pages {
		if page.Text != "" {
			texts = append(texts, page.Text)
		}
		words = append(words, page.Words...)
	}

	res, err := s.extract(Request{
		DocumentType: req.DocumentType,
		Text:         strings.Join(texts, "\n"),
		Words:        words,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, res)
	s.metrics.IncrementExtraction(req.DocumentType, "image")
	s.metrics.ObserveExtractLatency(time.Since(start))
	s.logger.InfoContext(ctx, "images extracted",
		"request_id", requestcontext.RequestID(ctx),
		"doc_type", req.DocumentType,
		"pages", len(req.ImagePaths),
		"fields", len(res.Fields),
		"overall_confidence", res.Score.Overall,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// DocumentTypes lists the registered document type keys.
func (s *Service) DocumentTypes() []string {
	return s.registry.Keys()
}

func (s *Service) extract(req Request) (*Result, error) {
	def, ok := s.registry.Lookup(req.DocumentType)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown document type")
	}

	fields := ExtractNormalized(req.Text, req.Words, def)
	score := Score(req.Words, fields, s.registry.ExpectedFields(req.DocumentType))

	return &Result{
		DocumentType: req.DocumentType,
		Fields:       fields,
		Score:        score,
		Text:         req.Text,
	}, nil
}

// digest hashes the page contents plus document type into the cache key.
func (s *Service) digest(req ImageRequest) (string, error) {
	h := sha256.New()
	h.Write([]byte(req.DocumentType))
	for _, path := range req.ImagePaths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "unreadable image")
		}
		h.Write(raw)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *Service) cacheGet(ctx context.Context, key string) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	res, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.IncrementCacheLookup("error")
		s.logger.WarnContext(ctx, "extraction cache get failed", "error", err)
		return nil, false
	case ok:
		s.metrics.IncrementCacheLookup("hit")
		return res, true
	default:
		s.metrics.IncrementCacheLookup("miss")
		return nil, false
	}
}

func (s *Service) cacheSet(ctx context.Context, key string, res *Result) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, res); err != nil {
		s.logger.WarnContext(ctx, "extraction cache set failed", "error", err)
	}
}
