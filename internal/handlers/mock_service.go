package handlers

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"coldspec/internal/csvtable"
	"coldspec/internal/models"
	"coldspec/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockSessions struct {
	loginSession models.Session
	loginToken   string
	loginErr     error
	parseSession models.Session
	parseErr     error
	logoutErr    error

	lastLoginBadge string
	lastParseToken string
	loggedOut      []models.Session
}

func (m *mockSessions) Login(ctx context.Context, badgeID string) (models.Session, string, error) {
	m.lastLoginBadge = badgeID
	return m.loginSession, m.loginToken, m.loginErr
}
func (m *mockSessions) ParseToken(ctx context.Context, token string) (models.Session, error) {
	m.lastParseToken = token
	return m.parseSession, m.parseErr
}
func (m *mockSessions) Logout(ctx context.Context, s models.Session) error {
	m.loggedOut = append(m.loggedOut, s)
	return m.logoutErr
}

type mockReadings struct {
	recordErr error
	list      []models.TemperatureReading
	listErr   error
	export    string
	exportErr error

	lastSession models.Session
	lastValue   float64
	lastSince   time.Time
	recordCalls int
}

func (m *mockReadings) Record(ctx context.Context, s models.Session, value float64) (models.TemperatureReading, error) {
	m.recordCalls++
	m.lastSession = s
	m.lastValue = value
	if m.recordErr != nil {
		return models.TemperatureReading{}, m.recordErr
	}
	return models.NewTemperatureReading(s.Name, s.Role, value, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)), nil
}
func (m *mockReadings) List(ctx context.Context, since time.Time) ([]models.TemperatureReading, error) {
	m.lastSince = since
	return m.list, m.listErr
}
func (m *mockReadings) Export(ctx context.Context, w io.Writer) error {
	if m.exportErr != nil {
		return m.exportErr
	}
	_, err := io.WriteString(w, m.export)
	return err
}

type mockNC struct {
	reportErr error
	table     *csvtable.Table
	tableErr  error
	lastInput service.NCInput
}

func (m *mockNC) Report(ctx context.Context, s models.Session, in service.NCInput) (models.NCReport, error) {
	m.lastInput = in
	if m.reportErr != nil {
		return models.NCReport{}, m.reportErr
	}
	return models.NCReport{User: s.Name, Role: s.Role, SkuCode: in.SkuCode, SkuDescription: "Cerveja"}, nil
}
func (m *mockNC) Table(ctx context.Context) (*csvtable.Table, error) {
	return m.table, m.tableErr
}

type mockLookup struct {
	user    models.User
	userErr error
	sku     service.SkuLookup
	skuErr  error
	lastSku string
}

func (m *mockLookup) User(ctx context.Context, badgeID string) (models.User, error) {
	return m.user, m.userErr
}
func (m *mockLookup) Sku(ctx context.Context, code string) (service.SkuLookup, error) {
	m.lastSku = code
	return m.sku, m.skuErr
}

type mockCharts struct {
	mu         sync.Mutex
	series     models.ChartSeries
	err        error
	lastWindow time.Duration
	uploaded   string
}

func (m *mockCharts) Stored(ctx context.Context, window time.Duration) (models.ChartSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastWindow = window
	return m.series, m.err
}

func (m *mockCharts) window() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastWindow
}
func (m *mockCharts) External(r io.Reader) (models.ChartSeries, error) {
	b, _ := io.ReadAll(r)
	m.uploaded = string(b)
	return m.series, m.err
}

type mockActivity struct {
	resp      []models.ActivityEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastBadge string
}

func (m *mockActivity) List(ctx context.Context, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastBadge = f.BadgeID
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

var testSession = models.Session{ID: "s1", BadgeID: "007", Name: "Mariana", Role: "Inspector"}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request) *http.Request {
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
