package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"coldspec/internal/csvtable"
	"coldspec/internal/models"
)

// Temperature table columns, in file order.
const (
	colTempUser   = "Usuario"
	colTempRole   = "Cargo"
	colTempDate   = "Data"
	colTempTime   = "Horario"
	colTempValue  = "Temperatura"
	colTempStatus = "Status"
)

var temperatureHeader = []string{colTempUser, colTempRole, colTempDate, colTempTime, colTempValue, colTempStatus}

// TemperatureCSV is the append-only table of manual readings.
type TemperatureCSV struct {
	store *csvtable.Store
	path  string
	loc   *time.Location
}

// NewTemperatureCSV returns the store at path. Date/time cells are interpreted in
// loc; nil means local time.
func NewTemperatureCSV(store *csvtable.Store, path string, loc *time.Location) *TemperatureCSV {
	if loc == nil {
		loc = time.Local
	}
	return &TemperatureCSV{store: store, path: path, loc: loc}
}

var _ ReadingRepo = (*TemperatureCSV)(nil)

// Append adds one reading, creating the file with its header when needed.
func (r *TemperatureCSV) Append(ctx context.Context, reading models.TemperatureReading) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := []string{
		reading.User,
		reading.Role,
		reading.Date,
		reading.Time,
		formatTemperature(reading.Value),
		reading.Status,
	}
	if err := r.store.AppendRow(r.path, temperatureHeader, row, csvtable.Semicolon); err != nil {
		return fmt.Errorf("append reading: %w", err)
	}
	return nil
}

// Load returns every reading in file order. A missing file yields an empty slice.
// Rows whose temperature does not parse are dropped.
func (r *TemperatureCSV) Load(ctx context.Context) ([]models.TemperatureReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tbl, err := r.store.Load(r.path, csvtable.Semicolon)
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, csvtable.ErrNoHeader):
		return []models.TemperatureReading{}, nil
	case err != nil:
		return nil, fmt.Errorf("load readings: %w", err)
	}

	out := make([]models.TemperatureReading, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		v, ok := parseTemperature(row[colTempValue])
		if !ok {
			continue
		}
		out = append(out, models.TemperatureReading{
			User:   row[colTempUser],
			Role:   row[colTempRole],
			Date:   row[colTempDate],
			Time:   row[colTempTime],
			Value:  v,
			Status: models.NormalizeStatus(row[colTempStatus]),
		})
	}
	return out, nil
}

// Since returns readings stamped at or after cutoff. Readings whose date or time
// does not parse are left out.
func (r *TemperatureCSV) Since(ctx context.Context, cutoff time.Time) ([]models.TemperatureReading, error) {
	all, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TemperatureReading, 0, len(all))
	for _, reading := range all {
		ts, ok := reading.Timestamp(r.loc)
		if !ok || ts.Before(cutoff) {
			continue
		}
		out = append(out, reading)
	}
	return out, nil
}

// Export copies the raw table to w. A missing table exports just the header.
func (r *TemperatureCSV) Export(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := r.store.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return csvtable.Encode(w, temperatureHeader, nil, csvtable.Semicolon)
	}
	if err != nil {
		return fmt.Errorf("export readings: %w", err)
	}
	_, err = w.Write(raw)
	return err
}

// Location is the zone date/time cells are read in.
func (r *TemperatureCSV) Location() *time.Location { return r.loc }

// formatTemperature always keeps a decimal part ("5.0", "7.25").
func formatTemperature(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// parseTemperature accepts both decimal separators.
func parseTemperature(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
