package contacts

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/pagination"
)

// Repository persists sales leads: contact requests and field visits.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateRequest(ctx context.Context, req *models.ContactRequest) error {
	if req == nil {
		return fmt.Errorf("contact request is required")
	}
	return r.db.WithContext(ctx).Create(req).Error
}

// ListRequests pages contact requests newest first.
func (r *Repository) ListRequests(ctx context.Context, params pagination.Params) ([]models.ContactRequest, string, error) {
	q, err := pagination.Apply(r.db.WithContext(ctx).Model(&models.ContactRequest{}), "contact_requests", params)
	if err != nil {
		return nil, "", err
	}
	var rows []models.ContactRequest
	if err := q.Find(&rows).Error; err != nil {
		return nil, "", err
	}
	page, next := pagination.Trim(rows, params.Limit, func(row models.ContactRequest) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return page, next, nil
}

func (r *Repository) CreateVisit(ctx context.Context, visit *models.VendorVisit) error {
	if visit == nil {
		return fmt.Errorf("vendor visit is required")
	}
	return r.db.WithContext(ctx).Create(visit).Error
}

// ListVisits pages vendor visits newest first.
func (r *Repository) ListVisits(ctx context.Context, params pagination.Params) ([]models.VendorVisit, string, error) {
	q, err := pagination.Apply(r.db.WithContext(ctx).Model(&models.VendorVisit{}), "vendor_visits", params)
	if err != nil {
		return nil, "", err
	}
	var rows []models.VendorVisit
	if err := q.Find(&rows).Error; err != nil {
		return nil, "", err
	}
	page, next := pagination.Trim(rows, params.Limit, func(row models.VendorVisit) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return page, next, nil
}
