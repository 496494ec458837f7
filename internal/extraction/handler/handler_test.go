package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veridoc/internal/doctype"
	"veridoc/internal/extraction"
	"veridoc/internal/ocr"
)

type stubEngine struct {
	result ocr.Result
	paths  []string
}

func (e *stubEngine) Recognize(_ context.Context, imagePath string) (ocr.Result, error) {
	e.paths = append(e.paths, imagePath)
	return e.result, nil
}

func newRouter(t *testing.T, engine ocr.Engine) http.Handler {
	t.Helper()
	svc, err := extraction.NewService(doctype.Default(), engine)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(svc, logger)

	r := chi.NewRouter()
	r.Route("/v1", h.Register)
	return r
}

func TestHandleExtract_JSON(t *testing.T) {
	router := newRouter(t, nil)

	body, _ := json.Marshal(map[string]any{
		"document_type": "id_card",
		"text":          "Full Name: John Smith\nID Number: AB-1234\nDOB: 05/01/1990",
		"words": []map[string]any{
			{"text": "John", "confidence": 92},
			{"text": "Smith", "confidence": 88},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/extraction/extract", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExtractResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "id_card", resp.DocumentType)
	assert.Equal(t, "John Smith", resp.Fields["name"].Value)
	assert.Equal(t, "AB1234", resp.Fields["id"].Value)
	assert.Equal(t, "1990-05-01", resp.Fields["dateOfBirth"].Value)
	assert.InDelta(t, 0.9, resp.Fields["name"].Confidence, 0.001)
}

func TestHandleExtract_ValidationErrors(t *testing.T) {
	router := newRouter(t, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing document_type", map[string]any{"text": "x"}},
		{"missing text", map[string]any{"document_type": "id_card"}},
		{"confidence out of range", map[string]any{
			"document_type": "id_card",
			"text":          "x",
			"words":         []map[string]any{{"text": "x", "confidence": 101}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			req := httptest.NewRequest(http.MethodPost, "/v1/extraction/extract", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleExtract_UnknownDocumentType(t *testing.T) {
	router := newRouter(t, nil)

	body, _ := json.Marshal(map[string]any{"document_type": "passport", "text": "x"})
	req := httptest.NewRequest(http.MethodPost, "/v1/extraction/extract", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExtract_Multipart(t *testing.T) {
	engine := &stubEngine{result: ocr.Result{
		Text:  "Full Name: Maria Garcia\nID Number: XY-9",
		Words: []ocr.Word{{Text: "Maria", Confidence: 95}, {Text: "Garcia", Confidence: 91}},
	}}
	router := newRouter(t, engine)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("document_type", "id_card"))
	part, err := mw.CreateFormFile("images", "card.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/extraction/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExtractResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Maria Garcia", resp.Fields["name"].Value)

	// Staged upload is removed after the request.
	require.Len(t, engine.paths, 1)
	_, statErr := os.Stat(engine.paths[0])
	assert.True(t, os.IsNotExist(statErr))
}

func TestHandleExtract_MultipartWithoutImages(t *testing.T) {
	router := newRouter(t, &stubEngine{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("document_type", "id_card"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/extraction/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDocumentTypes(t *testing.T) {
	router := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/doctypes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DocumentTypesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"certificate", "form", "id_card"}, resp.DocumentTypes)
}
