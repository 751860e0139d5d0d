package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coldspec/internal/models"
	"coldspec/internal/service"
)

func TestChartHandlers_Stored(t *testing.T) {
	charts := &mockCharts{series: models.ChartSeries{Source: models.SourceStored, LIE: 2, LSE: 7, Points: []models.ChartPoint{}}}
	s := &service.Service{Sessions: &mockSessions{parseSession: testSession}, Charts: charts}
	r := newTestRouter(s)

	cases := []struct {
		query      string
		wantCode   int
		wantWindow time.Duration
	}{
		{"", http.StatusOK, 7 * 24 * time.Hour},
		{"?days=2", http.StatusOK, 48 * time.Hour},
		{"?days=0", http.StatusBadRequest, 0},
		{"?days=abc", http.StatusBadRequest, 0},
	}
	for _, tc := range cases {
		charts.lastWindow = 0
		w := httptest.NewRecorder()
		r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/v1/charts/temperature"+tc.query, nil)))
		if w.Code != tc.wantCode {
			t.Fatalf("%q: status=%d, want %d", tc.query, w.Code, tc.wantCode)
		}
		if charts.lastWindow != tc.wantWindow {
			t.Fatalf("%q: window=%v, want %v", tc.query, charts.lastWindow, tc.wantWindow)
		}
	}
}

func TestChartHandlers_Upload(t *testing.T) {
	charts := &mockCharts{series: models.ChartSeries{Source: models.SourceExternal}}
	s := &service.Service{Sessions: &mockSessions{parseSession: testSession}, Charts: charts}
	r := newTestRouter(s)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "checklist.csv")
	_, _ = fw.Write([]byte("Hora de conclusão;Temperatura da Câmara Fria:\n"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charts/temperature/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(req))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if charts.uploaded != "Hora de conclusão;Temperatura da Câmara Fria:\n" {
		t.Fatalf("upload not forwarded: %q", charts.uploaded)
	}
	var out models.ChartSeries
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Source != models.SourceExternal {
		t.Fatalf("unexpected series: %+v", out)
	}

	charts.err = service.ErrMissingColumns
	body.Reset()
	mw = multipart.NewWriter(&body)
	fw, _ = mw.CreateFormFile("file", "bad.csv")
	_, _ = fw.Write([]byte("a;b\n"))
	_ = mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/charts/temperature/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(req))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing columns, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/charts/temperature/upload", nil)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", w.Code)
	}
}
