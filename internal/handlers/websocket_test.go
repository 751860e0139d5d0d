package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"coldspec/internal/models"
	"coldspec/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", defaultInterval},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=2m", defaultInterval},
		{"interval_ms_too_large", "/ws?interval_ms=120000", defaultInterval},
		{"interval_invalid_string", "/ws?interval=bogus", defaultInterval},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", defaultInterval},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.parseInterval(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}

	h = NewHandler(&service.Service{}, nil, WithStreamInterval(30*time.Second))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)
	if got := h.parseInterval(c); got != 30*time.Second {
		t.Fatalf("configured default not used: %v", got)
	}
}

// dialWS opens /ws through the full router so the session check applies.
func dialWS(t *testing.T, h *Handler, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(h.InitRoutes())
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, resp, err := dialer.Dial(u.String(), header)
	if conn != nil {
		t.Cleanup(func() { _ = conn.Close() })
	}
	return conn, resp, err
}

func mustDialWS(t *testing.T, h *Handler, query string) *websocket.Conn {
	t.Helper()
	conn, _, err := dialWS(t, h, query, authHeader("valid"))
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return conn
}

type testEnvelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func TestWebSocket_SeriesStream_InitialAndPeriodic(t *testing.T) {
	charts := &mockCharts{series: models.ChartSeries{
		Source:     models.SourceStored,
		Points:     []models.ChartPoint{{At: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), Value: 5}},
		LIE:        models.LIE,
		LSE:        models.LSE,
		OutOfRange: 0,
	}}
	h := NewHandler(&service.Service{Sessions: &mockSessions{parseSession: testSession}, Charts: charts}, nil, WithChartWindow(48*time.Hour))
	conn := mustDialWS(t, h, "interval_ms=20")

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env testEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != envelopeSeries || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var series models.ChartSeries
	if err := json.Unmarshal(env.Data, &series); err != nil {
		t.Fatalf("unmarshal series: %v", err)
	}
	if len(series.Points) != 1 || series.Points[0].Value != 5 || series.LSE != models.LSE {
		t.Fatalf("unexpected series: %+v", series)
	}
	if w := charts.window(); w != 48*time.Hour {
		t.Fatalf("configured window not used: %v", w)
	}

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	env = testEnvelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != envelopeSeries {
		t.Fatalf("expected type=series, got %+v", env)
	}
}

func TestWebSocket_InitialChartError_ReportsAndCloses(t *testing.T) {
	h := NewHandler(&service.Service{Sessions: &mockSessions{parseSession: testSession}, Charts: &mockCharts{err: errors.New("boom")}}, nil)
	conn := mustDialWS(t, h, "")

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var env testEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("expected error envelope first, got %v", err)
	}
	if env.Type != envelopeError || env.Error == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if err := conn.ReadJSON(&env); err == nil {
		t.Fatalf("expected read error (closed), got message: %+v", env)
	}
}

func TestWebSocket_RequiresSession(t *testing.T) {
	sessions := &mockSessions{parseSession: testSession}
	charts := &mockCharts{series: models.ChartSeries{Source: models.SourceStored}}
	h := NewHandler(&service.Service{Sessions: sessions, Charts: charts}, nil)

	conn, resp, err := dialWS(t, h, "", nil)
	if err == nil {
		t.Fatalf("unauthenticated dial must fail")
	}
	if conn != nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}

	sessions.parseErr = service.ErrInvalidToken
	_, resp, err = dialWS(t, h, "", authHeader("stale"))
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked session must be rejected, got err=%v resp=%+v", err, resp)
	}

	sessions.parseErr = nil
	conn, _, err = dialWS(t, h, "token=from-query", nil)
	if err != nil {
		t.Fatalf("query token dial: %v", err)
	}
	if sessions.lastParseToken != "from-query" {
		t.Fatalf("token not taken from query: %q", sessions.lastParseToken)
	}
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env testEnvelope
	if err := conn.ReadJSON(&env); err != nil || env.Type != envelopeSeries {
		t.Fatalf("expected series after query-token auth: %+v %v", env, err)
	}
}
