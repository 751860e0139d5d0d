package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"coldspec/internal/csvtable"
	"coldspec/internal/models"
)

// NonConformityCSV stores NC reports. The header grows as reports gain fields, so
// every append reloads the table, takes the column union and rewrites the file.
// mu serializes those rewrites within the process.
type NonConformityCSV struct {
	mu    sync.Mutex
	store *csvtable.Store
	path  string
}

func NewNonConformityCSV(store *csvtable.Store, path string) *NonConformityCSV {
	return &NonConformityCSV{store: store, path: path}
}

var _ NonConformityRepo = (*NonConformityCSV)(nil)

// Append stores a report.
func (r *NonConformityCSV) Append(ctx context.Context, report models.NCReport) error {
	return r.AppendFields(ctx, report.Fields())
}

// AppendFields stores a row given as ordered fields. Existing rows get null for
// columns they predate. Rows the parser skipped are written back too, their extra
// cells under synthesized columns.
func (r *NonConformityCSV) AppendFields(ctx context.Context, fields []models.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	loaded, err := r.load()
	if err != nil {
		return fmt.Errorf("append nc: %w", err)
	}
	tbl := loaded.Restored()

	cols := make([]string, 0, len(fields))
	rec := make(csvtable.Record, len(fields))
	for _, f := range fields {
		cols = append(cols, f.Column)
		if f.Value != "" {
			rec[f.Column] = f.Value
		}
	}

	columns := tbl.Union(cols)
	rows := append(tbl.Rows[:len(tbl.Rows):len(tbl.Rows)], rec)
	if err := r.store.Rewrite(r.path, columns, rows, csvtable.Semicolon); err != nil {
		return fmt.Errorf("append nc: %w", err)
	}
	return nil
}

// Load returns the whole table. Malformed rows are skipped and counted in
// Table.Skipped; a missing file is an empty table.
func (r *NonConformityCSV) Load(ctx context.Context) (*csvtable.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tbl, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("load nc: %w", err)
	}
	return tbl, nil
}

// load treats a missing file and a file without a readable header as empty. Read
// failures are returned so a locked file is never rewritten from scratch.
func (r *NonConformityCSV) load() (*csvtable.Table, error) {
	raw, err := r.store.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &csvtable.Table{}, nil
	}
	if err != nil {
		if csvtable.IsLockError(err) {
			return nil, fmt.Errorf("read %q: %w: %v", r.path, ErrWriteLocked, err)
		}
		return nil, fmt.Errorf("read %q: %w", r.path, err)
	}
	tbl, err := csvtable.Parse(csvtable.Decode(raw), csvtable.Semicolon)
	if err != nil {
		return &csvtable.Table{}, nil
	}
	return tbl, nil
}
