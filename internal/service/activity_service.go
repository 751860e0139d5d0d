package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coldspec/internal/models"
	"coldspec/internal/repository"
)

// activityTypes are the actions the audit trail records.
var activityTypes = map[string]bool{
	models.ActivityLogin:       true,
	models.ActivityLoginFailed: true,
	models.ActivityLogout:      true,
	models.ActivityReading:     true,
	models.ActivityNC:          true,
	models.ActivityWriteLocked: true,
}

// ActivityService answers supervisor questions about who did what on the
// line and when.
type ActivityService struct {
	repo repository.ActivityRepo
}

func NewActivityService(repo repository.ActivityRepo) *ActivityService {
	return &ActivityService{repo: repo}
}

// activityQuery turns a supervisor filter into a repository query. The range
// is compared in UTC; an inverted range or an unknown action type is a
// caller mistake.
func activityQuery(f LogFilter) (repository.ActivityQuery, error) {
	q := repository.ActivityQuery{
		Type:    strings.ToUpper(strings.TrimSpace(f.Type)),
		BadgeID: strings.TrimSpace(f.BadgeID),
	}
	if !f.From.IsZero() {
		q.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		q.To = f.To.UTC()
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return q, fmt.Errorf("%w: activity range starts %s after it ends %s",
			ErrInvalidInput, q.From.Format(time.RFC3339), q.To.Format(time.RFC3339))
	}
	if q.Type != "" && !activityTypes[q.Type] {
		return q, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, q.Type)
	}
	return q, nil
}

func (s *ActivityService) List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error) {
	q, err := activityQuery(f)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load operator activity: %w", err)
	}
	return events, nil
}
