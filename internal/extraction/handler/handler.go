package handler

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"veridoc/internal/extraction"
	dErrors "veridoc/pkg/domain-errors"
	"veridoc/pkg/platform/httputil"
	"veridoc/pkg/requestcontext"
)

const (
	maxUploadBytes = 32 << 20
	maxPages       = 16
)

// Service defines the interface for extraction operations.
type Service interface {
	ExtractText(ctx context.Context, req extraction.Request) (*extraction.Result, error)
	ExtractImages(ctx context.Context, req extraction.ImageRequest) (*extraction.Result, error)
	DocumentTypes() []string
}

// Handler wires extraction endpoints to the extraction service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an extraction handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts extraction endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/extraction/extract", h.HandleExtract)
	r.Get("/doctypes", h.HandleDocumentTypes)
}

// HandleExtract handles POST /v1/extraction/extract. A JSON body carries
// pre-recognized text; a multipart body carries page images that still
// need recognition.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		h.handleExtractImages(w, r)
		return
	}
	h.handleExtractText(w, r)
}

func (h *Handler) handleExtractText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ExtractRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.ExtractText(ctx, extraction.Request{
		DocumentType: req.DocumentType,
		Text:         req.Text,
		Words:        req.OCRWords(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "text extraction failed",
			"request_id", requestID,
			"doc_type", req.DocumentType,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

func (h *Handler) handleExtractImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed multipart body"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	docType := strings.TrimSpace(r.FormValue("document_type"))
	if docType == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "document_type is required"))
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "at least one image is required"))
		return
	}
	if len(files) > maxPages {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "too many pages"))
		return
	}

	paths, cleanup, err := h.stageUploads(files)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer cleanup()

	result, err := h.service.ExtractImages(ctx, extraction.ImageRequest{
		DocumentType: docType,
		ImagePaths:   paths,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "image extraction failed",
			"request_id", requestID,
			"doc_type", docType,
			"pages", len(paths),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "image extraction request served",
		"request_id", requestID,
		"doc_type", docType,
		"pages", len(paths),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleDocumentTypes handles GET /v1/doctypes.
func (h *Handler) HandleDocumentTypes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromDocumentTypes(h.service.DocumentTypes()))
}

// stageUploads copies the uploaded pages into a temp directory so the
// recognition engine can read them by path.
func (h *Handler) stageUploads(files []*multipart.FileHeader) ([]string, func(), error) {
	dir, err := os.MkdirTemp("", "veridoc-upload-*")
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "staging upload")
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	paths := make([]string, 0, len(files))
	for i, fh := range files {
		src, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable upload")
		}
		dst, err := os.Create(filepath.Join(dir, pageFileName(i, fh.Filename)))
		if err != nil {
			_ = src.Close()
			cleanup()
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "staging upload")
		}
		_, err = io.Copy(dst, src)
		_ = src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			cleanup()
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "staging upload")
		}
		paths = append(paths, dst.Name())
	}
	return paths, cleanup, nil
}

func pageFileName(i int, original string) string {
	ext := filepath.Ext(original)
	if ext == "" || len(ext) > 8 {
		ext = ".img"
	}
	return "page-" + strconv.Itoa(i) + ext
}
