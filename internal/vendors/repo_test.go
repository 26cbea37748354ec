package vendors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/internal/repo/repotest"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	"github.com/mintalist/mintalist-backend/pkg/pagination"
)

func TestRepositorySetTierWithTx(t *testing.T) {
	conn := repotest.NewSQLite(t)
	repo := NewRepository(conn)
	vendor := seedVendor(t, conn, "user_1", "cafe", enums.TierFree)

	require.ErrorIs(t, repo.SetTierWithTx(context.Background(), nil, vendor.ID, enums.TierPaid1), gorm.ErrInvalidTransaction)

	err := conn.Transaction(func(tx *gorm.DB) error {
		return repo.SetTierWithTx(context.Background(), tx, vendor.ID, enums.TierPaid2)
	})
	require.NoError(t, err)

	reloaded, err := repo.FindByID(context.Background(), vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TierPaid2, reloaded.Tier)

	assert.ErrorIs(t, repo.SetTier(context.Background(), uuid.New(), enums.TierPaid1), gorm.ErrRecordNotFound)
}

func TestRepositoryDowngradeIsConditional(t *testing.T) {
	conn := repotest.NewSQLite(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	vendor := seedVendor(t, conn, "user_1", "cafe", enums.TierFree)

	ok, err := repo.Downgrade(ctx, vendor.ID, "other")
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err := repo.FindByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "cafe", reloaded.Slug)
}

func TestRepositoryListWithMenuCountsPaginates(t *testing.T) {
	conn := repotest.NewSQLite(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	var created []*models.Vendor
	for i, s := range []string{"oldest", "middle", "newest"} {
		v := &models.Vendor{ClerkUserID: "user_" + s, Name: s, Slug: s, Tier: enums.TierFree, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, conn.Create(v).Error)
		created = append(created, v)
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, conn.Create(&models.MenuItem{VendorID: created[2].ID, Name: "item", Price: decimal.NewFromInt(1), IsAvailable: true}).Error)
	}

	rows, next, err := repo.ListWithMenuCounts(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "newest", rows[0].Vendor.Slug)
	assert.Equal(t, int64(3), rows[0].MenuItemCount)
	assert.Equal(t, int64(0), rows[1].MenuItemCount)
	require.NotEmpty(t, next)

	rows, next, err = repo.ListWithMenuCounts(ctx, pagination.Params{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "oldest", rows[0].Vendor.Slug)
	assert.Empty(t, next)
}

func TestRepositorySlugTaken(t *testing.T) {
	conn := repotest.NewSQLite(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	vendor := seedVendor(t, conn, "user_1", "cafe", enums.TierFree)

	taken, err := repo.SlugTaken(ctx, "cafe", vendor.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.SlugTaken(ctx, "cafe", uuid.New())
	require.NoError(t, err)
	assert.True(t, taken)
}
