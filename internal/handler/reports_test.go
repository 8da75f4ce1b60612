package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/community-watch/backend/internal/model"
)

const reportsBody = `{
  "reports": [
    {"id":"a","title":"t","description":"d","category":"Noise","priority":"low","status":"pending","createdAt":"2025-05-01T10:00:00Z","location":"Oak Park"},
    {"title":"t","description":"d","category":"Crime","priority":"high","status":"resolved","createdAt":"2025-05-02T10:00:00Z"}
  ],
  "filter": {"category":"all","severity":"high"}
}`

func TestReportMetricsHandler(t *testing.T) {
	r := newTestRouter(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports/metrics", bytes.NewBufferString(reportsBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var m model.ReportMetrics
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.TotalIncidents != 2 || m.FilteredCount != 1 || m.MostCommonCategories[0].Category != "Crime" {
		t.Fatalf("unexpected metrics %+v", m)
	}
}

func TestReportExportHandler(t *testing.T) {
	r := newTestRouter(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports/export", bytes.NewBufferString(reportsBody))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, `attachment; filename="incident-reports-`) {
		t.Fatalf("unexpected Content-Disposition %q", disposition)
	}
	var export model.ReportExport
	if err := json.Unmarshal(w.Body.Bytes(), &export); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if export.TotalReports != 1 || export.Reports[0].ID == "" {
		t.Fatalf("unexpected export %+v", export)
	}
}

func TestReportHandlerRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed-json", body: `{"reports":`},
		{name: "bad-date", body: `{"reports":[],"filter":{"dateFrom":"yesterday"}}`},
	}

	r := newTestRouter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/reports/metrics", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestOpenAPIDoc(t *testing.T) {
	r := newTestRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("openapi document is not valid JSON: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/api/analyze-incident"]; !ok {
		t.Fatal("expected /api/analyze-incident in paths")
	}
}

func TestOpenAPIDocCoversAPIRoutes(t *testing.T) {
	r := newTestRouter(nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	for _, route := range r.Routes() {
		if !strings.HasPrefix(route.Path, "/api/") && route.Path != "/ping" {
			continue
		}
		ops, ok := doc.Paths[route.Path]
		if !ok {
			t.Fatalf("%s missing from openapi paths", route.Path)
		}
		if _, ok := ops[strings.ToLower(route.Method)]; !ok {
			t.Fatalf("%s %s missing from openapi document", route.Method, route.Path)
		}
	}
}
