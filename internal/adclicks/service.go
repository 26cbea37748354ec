// Package adclicks records clicks on the "get your own menu" ad shown on
// free vendor pages.
package adclicks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/slug"
)

// LatestLimit caps the hub listing.
const LatestLimit = 200

type clickRepository interface {
	Create(ctx context.Context, click *models.AdClick) error
	ListLatest(ctx context.Context, limit int) ([]models.AdClick, error)
}

type ClickDTO struct {
	ID         uuid.UUID `json:"id"`
	VendorSlug *string   `json:"vendorSlug"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Service interface {
	Record(ctx context.Context, rawSlug string) error
	Latest(ctx context.Context) ([]ClickDTO, error)
}

type service struct {
	repo clickRepository
}

func NewService(repo clickRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ad click repository required")
	}
	return &service{repo: repo}, nil
}

// Record stores a click; slugs that are not well formed are dropped.
func (s *service) Record(ctx context.Context, rawSlug string) error {
	click := &models.AdClick{}
	if candidate := slug.Normalize(rawSlug); slug.Valid(candidate) {
		click.VendorSlug = &candidate
	}
	if err := s.repo.Create(ctx, click); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record ad click")
	}
	return nil
}

func (s *service) Latest(ctx context.Context) ([]ClickDTO, error) {
	rows, err := s.repo.ListLatest(ctx, LatestLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ad clicks")
	}
	out := make([]ClickDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ClickDTO{ID: row.ID, VendorSlug: row.VendorSlug, CreatedAt: row.CreatedAt})
	}
	return out, nil
}
