package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"coldspec/internal/models"
	"coldspec/internal/repository"
)

func TestReadingService_Record_ClassifiesAndStores(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 15, 0, 0, time.Local)

	tests := []struct {
		name       string
		value      float64
		wantStatus string
	}{
		{"in range", 5, models.StatusOK},
		{"lower bound", 2.0, models.StatusOK},
		{"upper bound", 7.0, models.StatusOK},
		{"too warm", 7.5, models.StatusError},
		{"too cold", 1.9, models.StatusError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeReadings{}
			activity := &fakeActivity{}
			svc := NewReadingService(repo, newRecorder(activity, nil), nil)
			svc.now = fixedClock(now)

			got, err := svc.Record(context.Background(), testSession, tt.value)
			if err != nil {
				t.Fatalf("Record: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Fatalf("status = %s, want %s", got.Status, tt.wantStatus)
			}
			if len(repo.rows) != 1 || repo.rows[0] != got {
				t.Fatalf("reading not stored: %+v", repo.rows)
			}
			if got.User != "Mariana" || got.Role != "Inspector" || got.Date != "10/03/2025" || got.Time != "08:15:00" {
				t.Fatalf("unexpected stamp: %+v", got)
			}
			if ts := activity.types(); len(ts) != 1 || ts[0] != models.ActivityReading {
				t.Fatalf("expected READING event, got %v", ts)
			}
		})
	}
}

func TestReadingService_Record_WriteLocked(t *testing.T) {
	repo := &fakeReadings{appendErr: repository.ErrWriteLocked}
	activity := &fakeActivity{}
	svc := NewReadingService(repo, newRecorder(activity, nil), nil)

	_, err := svc.Record(context.Background(), testSession, 5)
	if !errors.Is(err, repository.ErrWriteLocked) {
		t.Fatalf("expected ErrWriteLocked, got %v", err)
	}
	if ts := activity.types(); len(ts) != 1 || ts[0] != models.ActivityWriteLocked {
		t.Fatalf("expected WRITE_LOCKED event, got %v", ts)
	}
}

func TestReadingService_Record_RejectsNonFinite(t *testing.T) {
	repo := &fakeReadings{}
	svc := NewReadingService(repo, nil, nil)

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		if _, err := svc.Record(context.Background(), testSession, v); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Record(%v) err = %v, want ErrInvalidInput", v, err)
		}
	}
	if len(repo.rows) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestReadingService_ListAndExport(t *testing.T) {
	now := time.Now()
	repo := &fakeReadings{rows: []models.TemperatureReading{
		models.NewTemperatureReading("A", "I", 4, now.Add(-48*time.Hour)),
		models.NewTemperatureReading("A", "I", 5, now.Add(-time.Hour)),
	}}
	svc := NewReadingService(repo, nil, nil)

	all, err := svc.List(context.Background(), time.Time{})
	if err != nil || len(all) != 2 {
		t.Fatalf("List all = %d, %v", len(all), err)
	}
	recent, err := svc.List(context.Background(), now.Add(-24*time.Hour))
	if err != nil || len(recent) != 1 || recent[0].Value != 5 {
		t.Fatalf("List since = %+v, %v", recent, err)
	}

	var buf bytes.Buffer
	if err := svc.Export(context.Background(), &buf); err != nil || buf.String() != "export" {
		t.Fatalf("Export = %q, %v", buf.String(), err)
	}
}
