// Package logger provides the process-wide zap logger.
package logger

import (
	"sync"
)

// Log levels accepted by Get and New (case-insensitive).
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the shared logger. Only the first call's level is used.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = New(level)
	})
	return globalLogger
}

// New builds a standalone logger; unknown levels fall back to debug.
func New(level string) *Logger {
	return newZapLogger(level)
}
