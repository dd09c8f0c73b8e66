package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/GajendraSingh33/smart-prep/internal/docextract"
	"github.com/GajendraSingh33/smart-prep/internal/models"
	"github.com/GajendraSingh33/smart-prep/internal/services"
)

var errNotImplemented = errors.New("not implemented")

type fakeGenerator struct {
	generateFn func(context.Context, services.GenerateInput) (services.GenerateResult, error)
	quickFn    func(context.Context, string) ([]models.Question, error)
	uploadFn   func(context.Context, []docextract.Document) (services.UploadResult, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, in services.GenerateInput) (services.GenerateResult, error) {
	if f.generateFn != nil {
		return f.generateFn(ctx, in)
	}
	return services.GenerateResult{}, errNotImplemented
}

func (f *fakeGenerator) Quick(ctx context.Context, subject string) ([]models.Question, error) {
	if f.quickFn != nil {
		return f.quickFn(ctx, subject)
	}
	return nil, errNotImplemented
}

func (f *fakeGenerator) Upload(ctx context.Context, files []docextract.Document) (services.UploadResult, error) {
	if f.uploadFn != nil {
		return f.uploadFn(ctx, files)
	}
	return services.UploadResult{}, errNotImplemented
}

type fakeBank struct {
	addFn    func(context.Context, models.BankQuestion) (models.BankQuestion, error)
	getFn    func(context.Context, string) (models.BankQuestion, error)
	updateFn func(context.Context, string, models.QuestionPatch) (models.BankQuestion, error)
	deleteFn func(context.Context, string) error
	randomFn func(context.Context, services.RandomQuery) (services.RandomResult, error)
	searchFn func(context.Context, services.SearchQuery) (services.SearchResult, error)
}

func (f *fakeBank) Add(ctx context.Context, q models.BankQuestion) (models.BankQuestion, error) {
	if f.addFn != nil {
		return f.addFn(ctx, q)
	}
	return models.BankQuestion{}, errNotImplemented
}

func (f *fakeBank) Get(ctx context.Context, id string) (models.BankQuestion, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return models.BankQuestion{}, errNotImplemented
}

func (f *fakeBank) Update(ctx context.Context, id string, patch models.QuestionPatch) (models.BankQuestion, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, patch)
	}
	return models.BankQuestion{}, errNotImplemented
}

func (f *fakeBank) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return errNotImplemented
}

func (f *fakeBank) Random(ctx context.Context, q services.RandomQuery) (services.RandomResult, error) {
	if f.randomFn != nil {
		return f.randomFn(ctx, q)
	}
	return services.RandomResult{}, errNotImplemented
}

func (f *fakeBank) Search(ctx context.Context, q services.SearchQuery) (services.SearchResult, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, q)
	}
	return services.SearchResult{}, errNotImplemented
}

type formFile struct {
	name        string
	contentType string
	data        string
}

// multipartBody builds a form with the given fields and "files" parts.
func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		var part io.Writer
		var err error
		if f.contentType != "" {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
			h.Set("Content-Type", f.contentType)
			part, err = w.CreatePart(h)
		} else {
			part, err = w.CreateFormFile("files", f.name)
		}
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(f.data)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var got models.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v\nbody=%s", err, rr.Body.String())
	}
	return got
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) models.ErrorResponse {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	got := decodeError(t, rr)
	if got.Code != code {
		t.Fatalf("expected code %q, got %q", code, got.Code)
	}
	return got
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
