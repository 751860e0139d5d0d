package service

import (
	"context"
	"strings"

	"coldspec/internal/models"
	"coldspec/internal/repository"
)

type LookupService struct {
	users repository.UserDirectory
	skus  repository.SkuDirectory
}

func NewLookupService(users repository.UserDirectory, skus repository.SkuDirectory) *LookupService {
	return &LookupService{users: users, skus: skus}
}

// User resolves a badge without opening a session.
func (s *LookupService) User(ctx context.Context, badgeID string) (models.User, error) {
	return s.users.Find(ctx, badgeID)
}

// Sku reports what the catalog knows about code. An unreadable or empty catalog is
// SkuCatalogEmpty rather than an error; a missing file is still
// repository.ErrDirectoryUnavailable.
func (s *LookupService) Sku(ctx context.Context, code string) (SkuLookup, error) {
	code = strings.TrimSpace(code)
	catalog, err := s.skus.Load(ctx)
	if err != nil {
		return SkuLookup{}, err
	}
	if catalog.Empty() {
		return SkuLookup{Code: code, Status: SkuCatalogEmpty}, nil
	}
	sku, ok := catalog.Find(code)
	if !ok {
		return SkuLookup{Code: code, Description: models.SkuNotRegistered, Status: SkuNotRegistered}, nil
	}
	return SkuLookup{Code: sku.Code, Description: sku.Description, Status: SkuFound}, nil
}
