package repository

import (
	"context"
	"fmt"

	"coldspec/internal/csvtable"
	"coldspec/internal/models"
)

// SkuCSV resolves product codes against the catalog file. The catalog is usually
// semicolon-delimited; files that do not split into two columns that way are
// re-read as comma-delimited.
type SkuCSV struct {
	store *csvtable.Store
	path  string
}

func NewSkuCSV(store *csvtable.Store, path string) *SkuCSV {
	return &SkuCSV{store: store, path: path}
}

var _ SkuDirectory = (*SkuCSV)(nil)

// Load parses the whole catalog. A missing file is ErrDirectoryUnavailable; a file
// that cannot be parsed gives an empty catalog and no error.
func (d *SkuCSV) Load(ctx context.Context) (*models.SkuCatalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := d.store.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", ErrDirectoryUnavailable, d.path, err)
	}
	text := csvtable.Decode(raw)

	tbl, err := csvtable.Parse(text, csvtable.Semicolon)
	if err != nil {
		return &models.SkuCatalog{}, nil
	}
	if len(tbl.Columns) < 2 {
		if tbl, err = csvtable.Parse(text, csvtable.Comma); err != nil {
			return &models.SkuCatalog{}, nil
		}
	}
	return toCatalog(tbl), nil
}

// Find returns the entry whose first column equals code, both trimmed.
func (d *SkuCSV) Find(ctx context.Context, code string) (models.Sku, error) {
	catalog, err := d.Load(ctx)
	if err != nil {
		return models.Sku{}, err
	}
	sku, ok := catalog.Find(code)
	if !ok {
		return models.Sku{}, ErrNotFound
	}
	return sku, nil
}

func toCatalog(tbl *csvtable.Table) *models.SkuCatalog {
	c := &models.SkuCatalog{
		Columns: tbl.Columns,
		Rows:    make([][]string, 0, len(tbl.Rows)),
	}
	for _, rec := range tbl.Rows {
		row := make([]string, len(tbl.Columns))
		for i, col := range tbl.Columns {
			row[i] = rec[col]
		}
		c.Rows = append(c.Rows, row)
	}
	return c
}
