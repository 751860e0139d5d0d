package models

import "time"

// Chart series sources.
const (
	SourceStored   = "stored"
	SourceExternal = "external"
)

// ChartPoint is one plotted temperature.
type ChartPoint struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
	Label string    `json:"label,omitempty"`
}

// ChartSeries is a time-ordered temperature series with the acceptance band.
type ChartSeries struct {
	Source     string       `json:"source"`
	Points     []ChartPoint `json:"points"`
	LIE        float64      `json:"lie"`
	LSE        float64      `json:"lse"`
	OutOfRange int          `json:"out_of_range"`
}
