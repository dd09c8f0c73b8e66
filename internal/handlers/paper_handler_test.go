package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GajendraSingh33/smart-prep/internal/handlers"
	"github.com/GajendraSingh33/smart-prep/internal/middleware"
	"github.com/GajendraSingh33/smart-prep/internal/models"
)

func newPaperRouter() *chi.Mux {
	h := handlers.NewPaperHandler(nil)
	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.PaperRequest]()).Post("/api/v1/pdf", h.PaperPDFHandler)
	return r
}

func TestPaperPDF_OK(t *testing.T) {
	rr := httptest.NewRecorder()
	newPaperRouter().ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/v1/pdf", `{
		"title": "Midterm",
		"questions": [
			{"text": "Define entropy", "topic": "Physics", "marks": 2, "difficulty": "easy"},
			{"text": "Derive the ideal gas law", "topic": "Physics", "marks": 10, "difficulty": "hard"}
		]
	}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Fatalf("unexpected cache control %q", cc)
	}
	cd := rr.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="question-paper-`) || !strings.HasSuffix(cd, `.pdf"`) {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if cl := rr.Header().Get("Content-Length"); cl != strconv.Itoa(rr.Body.Len()) {
		t.Fatalf("content length %s does not match body %d", cl, rr.Body.Len())
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a PDF: %q", rr.Body.Bytes()[:min(16, rr.Body.Len())])
	}
}

func TestPaperPDF_NoQuestions(t *testing.T) {
	rr := httptest.NewRecorder()
	newPaperRouter().ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/v1/pdf", `{"questions": []}`))

	expectError(t, rr, http.StatusBadRequest, "missing_questions")
}

func TestPaperPDF_IncompleteQuestion(t *testing.T) {
	rr := httptest.NewRecorder()
	newPaperRouter().ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/v1/pdf",
		`{"questions": [{"text": "Define entropy", "marks": 2, "difficulty": "easy"}]}`))

	expectError(t, rr, http.StatusBadRequest, "invalid_questions")
}
