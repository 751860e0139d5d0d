package service

import (
	"context"
	"testing"
	"time"

	"coldspec/internal/models"
)

func TestSessionSweeper_SweepDeletesExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeSessions()
	repo.rows["old"] = models.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)}
	repo.rows["live"] = models.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}

	sw := NewSessionSweeper(repo, nil)
	if n := sw.sweep(context.Background(), now); n != 1 {
		t.Fatalf("sweep removed %d, want 1", n)
	}
	if _, ok := repo.rows["live"]; !ok {
		t.Fatalf("live session was removed")
	}
}

func TestSessionSweeper_RunStopsOnCancel(t *testing.T) {
	repo := newFakeSessions()
	sw := NewSessionSweeper(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		repo.mu.Lock()
		n := len(repo.swept)
		repo.mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("sweeper never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
