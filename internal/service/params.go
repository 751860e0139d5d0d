package service

import (
	"time"

	"coldspec/internal/models"
)

// LogFilter narrows the operator activity history.
type LogFilter struct {
	From    time.Time // inclusive; zero means no lower bound
	To      time.Time // inclusive; zero means no upper bound
	Type    string    // "", "LOGIN", "LOGIN_FAILED", "LOGOUT", "READING", "NC", "WRITE_LOCKED"
	BadgeID string    // operator badge; empty means everyone
}

// NCInput is what the operator fills in for a non-conformance report.
type NCInput struct {
	SkuCode      string
	Warehouse    string // A | B | C | R | M
	Aisle        string // optional
	RackPosition string // Top | Middle | Base
	Defects      models.Defects
	Notes        string
}

// SKU lookup outcomes.
const (
	SkuFound         = "found"
	SkuNotRegistered = "not_registered"
	SkuCatalogEmpty  = "catalog_empty"
)

// SkuLookup is the answer to a product-code query.
type SkuLookup struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Status      string `json:"status"` // found | not_registered | catalog_empty
}
