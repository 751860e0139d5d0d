package repository

import (
	"errors"

	"coldspec/internal/csvtable"
)

// Lookup and persistence outcomes callers branch on.
var (
	// ErrDirectoryUnavailable: the reference file is missing or cannot be read.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	// ErrDirectoryMalformed: the reference file was read but lacks the expected header.
	ErrDirectoryMalformed = errors.New("directory malformed")
	// ErrNotFound: no matching record.
	ErrNotFound = errors.New("not found")
	// ErrWriteLocked: another process holds the table file; the write was dropped.
	ErrWriteLocked = csvtable.ErrLocked
)
