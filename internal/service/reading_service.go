package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"coldspec/internal/logger"
	"coldspec/internal/models"
	"coldspec/internal/repository"
)

// ReadingService records manual cold-room readings for the logged-in operator.
type ReadingService struct {
	repo     repository.ReadingRepo
	activity *recorder
	log      *logger.Logger
	now      func() time.Time
}

func NewReadingService(repo repository.ReadingRepo, activity *recorder, log *logger.Logger) *ReadingService {
	return &ReadingService{repo: repo, activity: activity, log: log, now: time.Now}
}

// Record stamps, classifies and appends a reading. Out-of-range values are stored
// with status ERROR; they are not rejected.
func (s *ReadingService) Record(ctx context.Context, sess models.Session, value float64) (models.TemperatureReading, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return models.TemperatureReading{}, fmt.Errorf("%w: temperature must be a finite number", ErrInvalidInput)
	}

	r := models.NewTemperatureReading(sess.Name, sess.Role, value, s.now())
	if err := s.repo.Append(ctx, r); err != nil {
		if errors.Is(err, repository.ErrWriteLocked) {
			s.activity.record(ctx, models.ActivityWriteLocked, sess.BadgeID, "Temperature table is locked", map[string]any{"value": value})
		}
		return models.TemperatureReading{}, err
	}

	s.activity.record(ctx, models.ActivityReading, sess.BadgeID, fmt.Sprintf("Reading %.1f °C (%s)", value, r.Status), map[string]any{
		"value":  value,
		"status": r.Status,
	})
	if r.Status == models.StatusError && s.log != nil {
		s.log.Warnw("reading_out_of_range", "value", value, "badge_id", sess.BadgeID)
	}
	return r, nil
}

// List returns all readings, or only those at or after since when it is non-zero.
func (s *ReadingService) List(ctx context.Context, since time.Time) ([]models.TemperatureReading, error) {
	if since.IsZero() {
		return s.repo.Load(ctx)
	}
	return s.repo.Since(ctx, since)
}

// Export writes the raw temperature table.
func (s *ReadingService) Export(ctx context.Context, w io.Writer) error {
	return s.repo.Export(ctx, w)
}
