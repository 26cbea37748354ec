package vendors

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/internal/repo"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	"github.com/mintalist/mintalist-backend/pkg/pagination"
)

// Repository handles vendor persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to vendor operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListRow is a vendor plus its menu size, used by the hub listing.
type ListRow struct {
	Vendor        models.Vendor
	MenuItemCount int64
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByClerkUserID resolves the vendor owned by an identity-provider user.
func (r *Repository) FindByClerkUserID(ctx context.Context, userID string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).Where("clerk_user_id = ?", userID).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).Where("slug = ?", slug).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// SlugTaken reports whether another vendor already uses slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.DB(ctx).Model(&models.Vendor{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, vendor *models.Vendor) error {
	if vendor == nil {
		return fmt.Errorf("vendor is required")
	}
	return r.DB(ctx).Create(vendor).Error
}

// UpdateFields applies a column patch; a missing vendor yields gorm.ErrRecordNotFound.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.DB(ctx).Model(&models.Vendor{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Downgrade moves a paid vendor back to FREE with a fresh slug. It reports
// false when the vendor was no longer on a paid tier.
func (r *Repository) Downgrade(ctx context.Context, id uuid.UUID, newSlug string) (bool, error) {
	res := r.DB(ctx).Model(&models.Vendor{}).
		Where("id = ? AND tier IN ?", id, []enums.Tier{enums.TierPaid1, enums.TierPaid2}).
		Updates(map[string]any{
			"tier":                 enums.TierFree,
			"slug":                 newSlug,
			"background_image_url": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) SetTier(ctx context.Context, id uuid.UUID, t enums.Tier) error {
	return r.setTier(r.DB(ctx), id, t)
}

// SetTierWithTx updates the tier inside the caller's transaction.
func (r *Repository) SetTierWithTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, t enums.Tier) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return r.setTier(r.Conn(ctx, tx), id, t)
}

func (r *Repository) setTier(conn *gorm.DB, id uuid.UUID, t enums.Tier) error {
	res := conn.Model(&models.Vendor{}).Where("id = ?", id).Update("tier", t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListWithMenuCounts pages vendors newest first.
func (r *Repository) ListWithMenuCounts(ctx context.Context, params pagination.Params) ([]ListRow, string, error) {
	q, err := pagination.Apply(r.DB(ctx).Model(&models.Vendor{}), "vendors", params)
	if err != nil {
		return nil, "", err
	}
	var vendors []models.Vendor
	if err := q.Find(&vendors).Error; err != nil {
		return nil, "", err
	}
	page, next := pagination.Trim(vendors, params.Limit, func(v models.Vendor) pagination.Cursor {
		return pagination.Cursor{CreatedAt: v.CreatedAt, ID: v.ID}
	})
	if len(page) == 0 {
		return []ListRow{}, "", nil
	}

	ids := make([]uuid.UUID, 0, len(page))
	for _, v := range page {
		ids = append(ids, v.ID)
	}
	var counts []struct {
		VendorID uuid.UUID
		Total    int64
	}
	if err := r.DB(ctx).Model(&models.MenuItem{}).
		Select("vendor_id, COUNT(*) AS total").
		Where("vendor_id IN ?", ids).
		Group("vendor_id").
		Scan(&counts).Error; err != nil {
		return nil, "", err
	}
	byVendor := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byVendor[c.VendorID] = c.Total
	}

	rows := make([]ListRow, 0, len(page))
	for _, v := range page {
		rows = append(rows, ListRow{Vendor: v, MenuItemCount: byVendor[v.ID]})
	}
	return rows, next, nil
}
