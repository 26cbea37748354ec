package vendors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/config"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
)

type countingSlugLookup struct {
	vendors map[string]*models.Vendor
	calls   int
}

func (c *countingSlugLookup) FindBySlug(_ context.Context, slug string) (*models.Vendor, error) {
	c.calls++
	if v, ok := c.vendors[slug]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubMenuReader struct {
	availableOnly []bool
}

func (s *stubMenuReader) ListByVendor(_ context.Context, _ uuid.UUID, availableOnly bool) ([]models.MenuItem, error) {
	s.availableOnly = append(s.availableOnly, availableOnly)
	return nil, nil
}

type stubLinkReader struct{}

func (stubLinkReader) ListSocial(context.Context, uuid.UUID) ([]models.SocialLink, error) {
	return nil, nil
}

func (stubLinkReader) ListCustom(context.Context, uuid.UUID) ([]models.CustomLink, error) {
	return nil, nil
}

func newPublicPages(t *testing.T, lookup *countingSlugLookup, items *stubMenuReader, clock *time.Time) *publicPages {
	t.Helper()
	pages, err := NewPublicPages(lookup, items, stubLinkReader{}, "https://www.mintalist.com", config.CacheConfig{PublicPageSize: 8, PublicPageTTL: time.Minute})
	require.NoError(t, err)
	impl := pages.(*publicPages)
	impl.now = func() time.Time { return *clock }
	return impl
}

func TestPublicPageHidesGatedFields(t *testing.T) {
	bg := "https://cdn.example.com/bg.png"
	lookup := &countingSlugLookup{vendors: map[string]*models.Vendor{
		"free-cafe": {ID: uuid.New(), Name: "Free", Slug: "free-cafe", Tier: enums.TierFree, BackgroundImageURL: &bg},
		"gold-cafe": {ID: uuid.New(), Name: "Gold", Slug: "gold-cafe", Tier: enums.TierPaid1, BackgroundImageURL: &bg},
	}}
	items := &stubMenuReader{}
	clock := time.Now()
	pages := newPublicPages(t, lookup, items, &clock)
	ctx := context.Background()

	free, err := pages.Get(ctx, "free-cafe", false)
	require.NoError(t, err)
	assert.True(t, free.ShowAds)
	assert.Nil(t, free.BackgroundImageURL)
	assert.Equal(t, "https://www.mintalist.com/free-cafe", free.PublicURL)

	gold, err := pages.Get(ctx, "GOLD-CAFE", false)
	require.NoError(t, err)
	assert.False(t, gold.ShowAds)
	require.NotNil(t, gold.BackgroundImageURL)
	assert.Equal(t, []bool{true, true}, items.availableOnly)
}

func TestPublicPageSubdomainRequiresCapability(t *testing.T) {
	lookup := &countingSlugLookup{vendors: map[string]*models.Vendor{
		"gold-cafe":     {ID: uuid.New(), Slug: "gold-cafe", Tier: enums.TierPaid1},
		"platinum-cafe": {ID: uuid.New(), Slug: "platinum-cafe", Tier: enums.TierPaid2},
	}}
	clock := time.Now()
	pages := newPublicPages(t, lookup, &stubMenuReader{}, &clock)
	ctx := context.Background()

	_, err := pages.Get(ctx, "gold-cafe", true)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	page, err := pages.Get(ctx, "platinum-cafe", true)
	require.NoError(t, err)
	assert.Equal(t, "https://platinum-cafe.mintalist.com", page.PublicURL)
}

func TestPublicPageCachesUntilTTL(t *testing.T) {
	lookup := &countingSlugLookup{vendors: map[string]*models.Vendor{
		"cafe": {ID: uuid.New(), Slug: "cafe", Tier: enums.TierFree},
	}}
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	pages := newPublicPages(t, lookup, &stubMenuReader{}, &clock)
	ctx := context.Background()

	_, err := pages.Get(ctx, "cafe", false)
	require.NoError(t, err)
	clock = clock.Add(30 * time.Second)
	_, err = pages.Get(ctx, "cafe", false)
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.calls)

	clock = clock.Add(31 * time.Second)
	_, err = pages.Get(ctx, "cafe", false)
	require.NoError(t, err)
	assert.Equal(t, 2, lookup.calls)
}

func TestPublicPageUnknownSlugIsNotCached(t *testing.T) {
	lookup := &countingSlugLookup{vendors: map[string]*models.Vendor{}}
	clock := time.Now()
	pages := newPublicPages(t, lookup, &stubMenuReader{}, &clock)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := pages.Get(ctx, "missing", false)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	}
	assert.Equal(t, 2, lookup.calls)

	_, err := pages.Get(ctx, "api", false)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, 2, lookup.calls)
}

func TestPublicPageForgetVendorAfterUpgrade(t *testing.T) {
	id := uuid.New()
	lookup := &countingSlugLookup{vendors: map[string]*models.Vendor{
		"shop": {ID: id, Slug: "shop", Tier: enums.TierPaid1},
	}}
	clock := time.Now()
	pages := newPublicPages(t, lookup, &stubMenuReader{}, &clock)
	ctx := context.Background()

	_, err := pages.Get(ctx, "shop", true)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	lookup.vendors["shop"] = &models.Vendor{ID: id, Slug: "shop", Tier: enums.TierPaid2}
	pages.ForgetVendor(id)

	page, err := pages.Get(ctx, "shop", true)
	require.NoError(t, err)
	assert.Equal(t, enums.TierPaid2, page.Tier)
}

func TestPublicPageForgetVendorDropsOldSlug(t *testing.T) {
	bg := "https://cdn.example.com/bg.png"
	id := uuid.New()
	other := uuid.New()
	lookup := &countingSlugLookup{vendors: map[string]*models.Vendor{
		"gold-cafe": {ID: id, Slug: "gold-cafe", Tier: enums.TierPaid1, BackgroundImageURL: &bg},
		"neighbour": {ID: other, Slug: "neighbour", Tier: enums.TierFree},
	}}
	clock := time.Now()
	pages := newPublicPages(t, lookup, &stubMenuReader{}, &clock)
	ctx := context.Background()

	for _, s := range []string{"gold-cafe", "neighbour"} {
		_, err := pages.Get(ctx, s, false)
		require.NoError(t, err)
	}

	delete(lookup.vendors, "gold-cafe")
	lookup.vendors["x7k2p9qa"] = &models.Vendor{ID: id, Slug: "x7k2p9qa", Tier: enums.TierFree}
	pages.ForgetVendor(id)

	_, err := pages.Get(ctx, "gold-cafe", false)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	downgraded, err := pages.Get(ctx, "x7k2p9qa", false)
	require.NoError(t, err)
	assert.True(t, downgraded.ShowAds)
	assert.Nil(t, downgraded.BackgroundImageURL)

	calls := lookup.calls
	_, err = pages.Get(ctx, "neighbour", false)
	require.NoError(t, err)
	assert.Equal(t, calls, lookup.calls, "other vendors stay cached")
}
