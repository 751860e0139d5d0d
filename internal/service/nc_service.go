package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coldspec/internal/csvtable"
	"coldspec/internal/logger"
	"coldspec/internal/models"
	"coldspec/internal/repository"
)

// NCService validates and stores non-conformance reports.
type NCService struct {
	repo     repository.NonConformityRepo
	skus     repository.SkuDirectory
	activity *recorder
	log      *logger.Logger
	now      func() time.Time
}

func NewNCService(repo repository.NonConformityRepo, skus repository.SkuDirectory, activity *recorder, log *logger.Logger) *NCService {
	return &NCService{repo: repo, skus: skus, activity: activity, log: log, now: time.Now}
}

// Report builds a report from in for the session's operator and stores it. The
// SKU description comes from the catalog; codes it does not know are stored as
// not registered. When the catalog cannot be read the description stays empty
// and the report says so.
func (s *NCService) Report(ctx context.Context, sess models.Session, in NCInput) (models.NCReport, error) {
	code := strings.TrimSpace(in.SkuCode)
	if code == "" {
		return models.NCReport{}, fmt.Errorf("%w: sku_code is required", ErrInvalidInput)
	}
	wh, err := models.ParseWarehouse(in.Warehouse)
	if err != nil {
		return models.NCReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	pos, err := models.ParseRackPosition(in.RackPosition)
	if err != nil {
		return models.NCReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	desc, catalogOK := s.describe(ctx, code)
	report := models.NCReport{
		User:               sess.Name,
		Role:               sess.Role,
		SkuCode:            code,
		SkuDescription:     desc,
		CatalogUnavailable: !catalogOK,
		Warehouse:          wh,
		Aisle:              strings.TrimSpace(in.Aisle),
		RackPosition:       pos,
		Defects:            in.Defects,
		Notes:              in.Notes,
	}
	report.Stamp(s.now())

	if err := s.repo.Append(ctx, report); err != nil {
		if errors.Is(err, repository.ErrWriteLocked) {
			s.activity.record(ctx, models.ActivityWriteLocked, sess.BadgeID, "NC table is locked", map[string]any{"sku": code})
		}
		return models.NCReport{}, err
	}

	s.activity.record(ctx, models.ActivityNC, sess.BadgeID, "NC reported for SKU "+code, map[string]any{
		"sku":       code,
		"warehouse": string(wh),
	})
	return report, nil
}

// Table returns the stored reports as they are on disk.
func (s *NCService) Table(ctx context.Context) (*csvtable.Table, error) {
	tbl, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if tbl.Skipped > 0 && s.log != nil {
		s.log.Warnw("nc_rows_skipped", "count", tbl.Skipped)
	}
	return tbl, nil
}

// describe resolves the description of code. ok is false when the catalog
// itself could not be read.
func (s *NCService) describe(ctx context.Context, code string) (desc string, ok bool) {
	sku, err := s.skus.Find(ctx, code)
	switch {
	case err == nil:
		return sku.Description, true
	case errors.Is(err, repository.ErrNotFound):
		return models.SkuNotRegistered, true
	}
	if s.log != nil {
		s.log.Warnw("sku_catalog_unreadable", "err", err, "sku", code)
	}
	return "", false
}
