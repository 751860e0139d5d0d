package repository

import (
	"context"
	"database/sql"
	"io"
	"time"

	"coldspec/internal/csvtable"
	"coldspec/internal/models"
)

type UserDirectory interface {
	Find(ctx context.Context, badgeID string) (models.User, error)
}

type SkuDirectory interface {
	Load(ctx context.Context) (*models.SkuCatalog, error)
	Find(ctx context.Context, code string) (models.Sku, error)
}

type ReadingRepo interface {
	Append(ctx context.Context, r models.TemperatureReading) error
	Load(ctx context.Context) ([]models.TemperatureReading, error)
	Since(ctx context.Context, cutoff time.Time) ([]models.TemperatureReading, error)
	Export(ctx context.Context, w io.Writer) error
}

type NonConformityRepo interface {
	Append(ctx context.Context, r models.NCReport) error
	Load(ctx context.Context) (*csvtable.Table, error)
}

// ActivityQuery narrows the operator activity history. Zero fields match
// everything.
type ActivityQuery struct {
	From    time.Time // inclusive
	To      time.Time // inclusive
	Type    string
	BadgeID string
}

type ActivityRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, q ActivityQuery) ([]models.ActivityEvent, error)
}

type SessionRepo interface {
	Save(ctx context.Context, s models.Session) error
	Load(ctx context.Context, id string) (models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Files locates the CSV tables.
type Files struct {
	Users       string
	Skus        string
	Temperature string
	NC          string
}

type Repository struct {
	Users           UserDirectory
	Skus            SkuDirectory
	Readings        ReadingRepo
	NonConformities NonConformityRepo
	Activity        ActivityRepo
	Sessions        SessionRepo
}

// NewRepository wires the CSV tables on store and the SQLite-backed activity log
// and sessions on db.
func NewRepository(db *sql.DB, store *csvtable.Store, files Files) *Repository {
	return &Repository{
		Users:           NewUserCSV(store, files.Users),
		Skus:            NewSkuCSV(store, files.Skus),
		Readings:        NewTemperatureCSV(store, files.Temperature, nil),
		NonConformities: NewNonConformityCSV(store, files.NC),
		Activity:        NewActivitySQLite(db),
		Sessions:        NewSessionSQLite(db),
	}
}
