package service

import (
	"context"
	"time"

	"coldspec/internal/logger"
	"coldspec/internal/repository"
)

// SessionSweeper periodically deletes expired sessions.
type SessionSweeper struct {
	sessions repository.SessionRepo
	log      *logger.Logger
}

func NewSessionSweeper(sessions repository.SessionRepo, log *logger.Logger) *SessionSweeper {
	return &SessionSweeper{sessions: sessions, log: log}
}

// Run sweeps at the given interval until ctx is canceled.
func (s *SessionSweeper) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now)
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context, now time.Time) int64 {
	n, err := s.sessions.DeleteExpired(ctx, now.UTC())
	if err != nil {
		if s.log != nil {
			s.log.Warnw("session_sweep_failed", "err", err)
		}
		return 0
	}
	if n > 0 && s.log != nil {
		s.log.Infow("sessions_expired", "count", n)
	}
	return n
}
