package service

import (
	"context"
	"time"

	"coldspec/internal/logger"
	"coldspec/internal/models"
	"coldspec/internal/repository"

	"github.com/google/uuid"
)

// recorder appends activity events. Failures are logged and swallowed: the
// interaction that produced the event has already happened.
type recorder struct {
	repo repository.ActivityRepo
	log  *logger.Logger
}

func newRecorder(repo repository.ActivityRepo, log *logger.Logger) *recorder {
	return &recorder{repo: repo, log: log}
}

func (r *recorder) record(ctx context.Context, typ, badgeID, description string, meta map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	ev := models.ActivityEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		BadgeID:     badgeID,
		Description: description,
	}
	if len(meta) > 0 {
		ev.Metadata = meta
	}
	if err := r.repo.Append(ctx, ev); err != nil && r.log != nil {
		r.log.Warnw("activity_append_failed", "err", err, "type", typ)
	}
}
