package repository

import (
	"context"
	"fmt"
	"strings"

	"coldspec/internal/csvtable"
	"coldspec/internal/models"
)

// Column names of the badge directory, after header normalization.
const (
	colUserLogin = "id_login"
	colUserName  = "nome"
	colUserRole  = "tipo"
)

// UserCSV resolves badges against the semicolon-delimited users file. The file is
// re-read on every lookup.
type UserCSV struct {
	store *csvtable.Store
	path  string
}

func NewUserCSV(store *csvtable.Store, path string) *UserCSV {
	return &UserCSV{store: store, path: path}
}

var _ UserDirectory = (*UserCSV)(nil)

// Find returns the user whose trimmed id_login equals the trimmed badgeID.
func (d *UserCSV) Find(ctx context.Context, badgeID string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	raw, err := d.store.ReadFile(d.path)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: read %q: %v", ErrDirectoryUnavailable, d.path, err)
	}
	tbl, err := csvtable.Parse(csvtable.Decode(raw), csvtable.Semicolon)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %q: %v", ErrDirectoryMalformed, d.path, err)
	}
	tbl.RenameColumns(normalizeHeader)
	if !tbl.HasColumn(colUserLogin) {
		return models.User{}, fmt.Errorf("%w: %q has no %s column", ErrDirectoryMalformed, d.path, colUserLogin)
	}

	badgeID = strings.TrimSpace(badgeID)
	if badgeID == "" {
		return models.User{}, ErrNotFound
	}
	for _, row := range tbl.Rows {
		id, ok := row.Get(colUserLogin)
		if !ok || strings.TrimSpace(id) != badgeID {
			continue
		}
		return models.User{
			BadgeID: badgeID,
			Name:    row[colUserName],
			Role:    row[colUserRole],
		}, nil
	}
	return models.User{}, ErrNotFound
}

// normalizeHeader trims and lower-cases a column name.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
