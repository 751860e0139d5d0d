package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"coldspec/internal/csvtable"
	"coldspec/internal/models"
	"coldspec/internal/repository"
)

// fakeUsers is an in-memory repository.UserDirectory.
type fakeUsers struct {
	users map[string]models.User
	err   error
	calls int
}

func (f *fakeUsers) Find(ctx context.Context, badgeID string) (models.User, error) {
	f.calls++
	if f.err != nil {
		return models.User{}, f.err
	}
	u, ok := f.users[strings.TrimSpace(badgeID)]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

// fakeSessions is an in-memory repository.SessionRepo.
type fakeSessions struct {
	mu      sync.Mutex
	rows    map[string]models.Session
	saveErr error
	swept   []time.Time
}

func newFakeSessions() *fakeSessions { return &fakeSessions{rows: map[string]models.Session{}} }

func (f *fakeSessions) Save(ctx context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows[s.ID] = s
	return nil
}

func (f *fakeSessions) Load(ctx context.Context, id string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return models.Session{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeSessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swept = append(f.swept, now)
	var n int64
	for id, s := range f.rows {
		if s.Expired(now) {
			delete(f.rows, id)
			n++
		}
	}
	return n, nil
}

// fakeActivity captures appended events.
type fakeActivity struct {
	mu     sync.Mutex
	events []models.ActivityEvent
	err    error

	got   repository.ActivityQuery
	calls int
}

func (f *fakeActivity) Append(ctx context.Context, e models.ActivityEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

func (f *fakeActivity) List(ctx context.Context, q repository.ActivityQuery) ([]models.ActivityEvent, error) {
	f.calls++
	f.got = q
	return f.events, f.err
}

func (f *fakeActivity) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeReadings is an in-memory repository.ReadingRepo.
type fakeReadings struct {
	rows      []models.TemperatureReading
	appendErr error
	gotCutoff time.Time
}

func (f *fakeReadings) Append(ctx context.Context, r models.TemperatureReading) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, r)
	return nil
}

func (f *fakeReadings) Load(ctx context.Context) ([]models.TemperatureReading, error) {
	return append([]models.TemperatureReading{}, f.rows...), nil
}

func (f *fakeReadings) Since(ctx context.Context, cutoff time.Time) ([]models.TemperatureReading, error) {
	f.gotCutoff = cutoff
	out := []models.TemperatureReading{}
	for _, r := range f.rows {
		if ts, ok := r.Timestamp(time.Local); ok && !ts.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReadings) Export(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "export")
	return err
}

// fakeNC is an in-memory repository.NonConformityRepo.
type fakeNC struct {
	reports   []models.NCReport
	appendErr error
	table     *csvtable.Table
}

func (f *fakeNC) Append(ctx context.Context, r models.NCReport) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.reports = append(f.reports, r)
	return nil
}

func (f *fakeNC) Load(ctx context.Context) (*csvtable.Table, error) {
	if f.table == nil {
		return &csvtable.Table{}, nil
	}
	return f.table, nil
}

// fakeSkus serves a fixed catalog.
type fakeSkus struct {
	catalog *models.SkuCatalog
	err     error
}

func (f *fakeSkus) Load(ctx context.Context) (*models.SkuCatalog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.catalog, nil
}

func (f *fakeSkus) Find(ctx context.Context, code string) (models.Sku, error) {
	c, err := f.Load(ctx)
	if err != nil {
		return models.Sku{}, err
	}
	sku, ok := c.Find(code)
	if !ok {
		return models.Sku{}, repository.ErrNotFound
	}
	return sku, nil
}

var testSession = models.Session{ID: "s1", BadgeID: "007", Name: "Mariana", Role: "Inspector"}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }
