package models

import (
	"strings"
	"time"
)

// Acceptable cold-room range in °C, both bounds inclusive.
const (
	LIE = 2.0
	LSE = 7.0
)

// Reading status values as persisted.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Date and time layouts of the Data and Horario columns.
const (
	DateLayout     = "02/01/2006"
	TimeLayout     = "15:04:05"
	DateTimeLayout = DateLayout + " " + TimeLayout
)

// TemperatureReading is one manual cold-room reading.
type TemperatureReading struct {
	User   string  `json:"user"`
	Role   string  `json:"role"`
	Date   string  `json:"date"` // DD/MM/YYYY
	Time   string  `json:"time"` // HH:MM:SS
	Value  float64 `json:"value"`
	Status string  `json:"status"` // OK | ERROR
}

// ClassifyTemperature returns StatusOK iff LIE <= v <= LSE.
func ClassifyTemperature(v float64) string {
	if v >= LIE && v <= LSE {
		return StatusOK
	}
	return StatusError
}

// NewTemperatureReading stamps a reading at now and computes its status.
func NewTemperatureReading(user, role string, value float64, now time.Time) TemperatureReading {
	return TemperatureReading{
		User:   user,
		Role:   role,
		Date:   now.Format(DateLayout),
		Time:   now.Format(TimeLayout),
		Value:  value,
		Status: ClassifyTemperature(value),
	}
}

// Timestamp combines Date and Time in loc. ok is false when either does not parse.
func (r TemperatureReading) Timestamp(loc *time.Location) (time.Time, bool) {
	ts, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(r.Date)+" "+strings.TrimSpace(r.Time), loc)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// NormalizeStatus maps persisted status spellings (including the legacy "ERRO") to
// StatusOK / StatusError. Unknown values are returned upper-cased.
func NormalizeStatus(s string) string {
	switch u := strings.ToUpper(strings.TrimSpace(s)); u {
	case "OK":
		return StatusOK
	case "ERRO", "ERROR":
		return StatusError
	default:
		return u
	}
}
