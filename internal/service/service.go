package service

import (
	"context"
	"errors"
	"io"
	"time"

	"coldspec/internal/csvtable"
	"coldspec/internal/logger"
	"coldspec/internal/models"
	"coldspec/internal/repository"
)

// ErrInvalidInput marks caller mistakes (bad values, missing fields). Handlers map
// it to 400.
var ErrInvalidInput = errors.New("invalid input")

// Sessions owns operator login and logout.
type Sessions interface {
	Login(ctx context.Context, badgeID string) (models.Session, string, error)
	ParseToken(ctx context.Context, token string) (models.Session, error)
	Logout(ctx context.Context, s models.Session) error
}

// Readings records and reads manual temperature readings.
type Readings interface {
	Record(ctx context.Context, s models.Session, value float64) (models.TemperatureReading, error)
	List(ctx context.Context, since time.Time) ([]models.TemperatureReading, error)
	Export(ctx context.Context, w io.Writer) error
}

// NonConformities records and lists NC reports.
type NonConformities interface {
	Report(ctx context.Context, s models.Session, in NCInput) (models.NCReport, error)
	Table(ctx context.Context) (*csvtable.Table, error)
}

// Lookup answers badge and product-code queries against the reference files.
type Lookup interface {
	User(ctx context.Context, badgeID string) (models.User, error)
	Sku(ctx context.Context, code string) (SkuLookup, error)
}

// Charts builds temperature series for the dashboard.
type Charts interface {
	Stored(ctx context.Context, window time.Duration) (models.ChartSeries, error)
	External(r io.Reader) (models.ChartSeries, error)
}

// ActivityLog exposes the activity history with filtering.
type ActivityLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error)
}

// Sweeper drops expired sessions in the background. Stop via context cancellation.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

// Options carries the settings services need from configuration.
type Options struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Service aggregates all sub-services.
type Service struct {
	Sessions
	Readings
	NonConformities
	Lookup
	Charts
	ActivityLog
	Sweeper
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options, log *logger.Logger) *Service {
	rec := newRecorder(repos.Activity, log)
	return &Service{
		Sessions:        NewSessionService(repos.Users, repos.Sessions, rec, opts.SigningKey, opts.TokenTTL),
		Readings:        NewReadingService(repos.Readings, rec, log),
		NonConformities: NewNCService(repos.NonConformities, repos.Skus, rec, log),
		Lookup:          NewLookupService(repos.Users, repos.Skus),
		Charts:          NewChartService(repos.Readings, log),
		ActivityLog:     NewActivityService(repos.Activity),
		Sweeper:         NewSessionSweeper(repos.Sessions, log),
	}
}
