package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %s", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestCSV(t *testing.T) {
	if got := CSV(" a, ,b,,c "); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("CSV: unexpected %v", got)
	}
	if got := CSV(""); got != nil {
		t.Fatalf("CSV: expected nil for empty input, got %v", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, mode := range []string{"", "production", "development"} {
		logger, err := NewLogger(mode)
		if err != nil || logger == nil {
			t.Fatalf("NewLogger(%q): %v", mode, err)
		}
	}
	if _, err := NewLogger("verbose"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
