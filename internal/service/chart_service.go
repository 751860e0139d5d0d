package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"coldspec/internal/csvtable"
	"coldspec/internal/logger"
	"coldspec/internal/models"
	"coldspec/internal/repository"
)

// Columns of the external checklist export.
const (
	colExternalTime      = "Hora de conclusão"
	colExternalTemp      = "Temperatura da Câmara Fria:"
	colExternalName      = "Nome"
	colExternalCollector = "Conferente coletor:"
)

const defaultChartWindow = 7 * 24 * time.Hour

// ErrMissingColumns means an uploaded file lacks the time or temperature column.
var ErrMissingColumns = fmt.Errorf("csv must have the columns %q and %q", colExternalTime, colExternalTemp)

// externalLayouts are tried in order: month-first exports first, then ISO.
var externalLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/06 15:04:05",
	"1/2/06 15:04",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ChartService builds time-ordered temperature series with the acceptance band.
type ChartService struct {
	readings repository.ReadingRepo
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewChartService(readings repository.ReadingRepo, log *logger.Logger) *ChartService {
	return &ChartService{readings: readings, log: log, loc: time.Local, now: time.Now}
}

// Stored returns the manual readings of the last window (7 days when window <= 0).
func (s *ChartService) Stored(ctx context.Context, window time.Duration) (models.ChartSeries, error) {
	if window <= 0 {
		window = defaultChartWindow
	}
	readings, err := s.readings.Since(ctx, s.now().Add(-window))
	if err != nil {
		return models.ChartSeries{}, err
	}

	points := make([]models.ChartPoint, 0, len(readings))
	for _, r := range readings {
		at, ok := r.Timestamp(s.loc)
		if !ok {
			continue
		}
		points = append(points, models.ChartPoint{At: at, Value: r.Value, Label: r.User})
	}
	return newSeries(models.SourceStored, points), nil
}

// External parses a semicolon-delimited checklist export. Rows without a numeric
// temperature ("Em manutenção") or a parseable time are dropped.
func (s *ChartService) External(r io.Reader) (models.ChartSeries, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return models.ChartSeries{}, fmt.Errorf("read upload: %w", err)
	}
	tbl, err := csvtable.Parse(csvtable.Decode(raw), csvtable.Semicolon)
	if errors.Is(err, csvtable.ErrNoHeader) {
		return models.ChartSeries{}, ErrMissingColumns
	}
	if err != nil {
		return models.ChartSeries{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	tbl.RenameColumns(strings.TrimSpace)
	if !tbl.HasColumn(colExternalTime) || !tbl.HasColumn(colExternalTemp) {
		return models.ChartSeries{}, ErrMissingColumns
	}

	points := make([]models.ChartPoint, 0, len(tbl.Rows))
	dropped := 0
	for _, row := range tbl.Rows {
		v, vok := parseDecimal(row[colExternalTemp])
		at, tok := s.parseExternalTime(row[colExternalTime])
		if !vok || !tok {
			dropped++
			continue
		}
		label := strings.TrimSpace(row[colExternalName])
		if label == "" {
			label = strings.TrimSpace(row[colExternalCollector])
		}
		points = append(points, models.ChartPoint{At: at, Value: v, Label: label})
	}
	if dropped > 0 && s.log != nil {
		s.log.Infow("chart_upload_rows_dropped", "count", dropped, "kept", len(points))
	}
	return newSeries(models.SourceExternal, points), nil
}

func (s *ChartService) parseExternalTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range externalLayouts {
		if t, err := time.ParseInLocation(layout, v, s.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDecimal reads numbers written with either decimal separator.
func parseDecimal(v string) (float64, bool) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func newSeries(source string, points []models.ChartPoint) models.ChartSeries {
	sort.SliceStable(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
	out := 0
	for _, p := range points {
		if models.ClassifyTemperature(p.Value) == models.StatusError {
			out++
		}
	}
	return models.ChartSeries{
		Source:     source,
		Points:     points,
		LIE:        models.LIE,
		LSE:        models.LSE,
		OutOfRange: out,
	}
}
