package vendors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/internal/links"
	"github.com/mintalist/mintalist-backend/internal/menu"
	"github.com/mintalist/mintalist-backend/pkg/config"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/resolver"
	"github.com/mintalist/mintalist-backend/pkg/slug"
	"github.com/mintalist/mintalist-backend/pkg/tier"
)

const (
	defaultPageCacheSize = 1024
	defaultPageCacheTTL  = time.Minute
)

type slugLookup interface {
	FindBySlug(ctx context.Context, slug string) (*models.Vendor, error)
}

// PublicPages serves the anonymous vendor page payload.
type PublicPages interface {
	Get(ctx context.Context, slug string, viaSubdomain bool) (*PublicPageDTO, error)
}

// PageInvalidator drops cached public pages after a write that changes what
// the page shows (tier, slug, profile).
type PageInvalidator interface {
	ForgetVendor(id uuid.UUID)
}

// PageCache is the cached public page reader.
type PageCache interface {
	PublicPages
	PageInvalidator
}

type pageEntry struct {
	vendorID uuid.UUID
	page     *PublicPageDTO
	storedAt time.Time
}

// publicPages caches rendered pages by slug for a fixed TTL. Writers evict a
// vendor's entries through ForgetVendor; other edits (menu, links) show up
// once the TTL lapses.
type publicPages struct {
	vendors slugLookup
	menu    menuReader
	links   linkReader
	baseURL string
	cache   *lru.Cache[string, pageEntry]
	ttl     time.Duration
	now     func() time.Time
}

// NewPublicPages wires the public page reader with an LRU cache sized from cfg.
func NewPublicPages(vendors slugLookup, items menuReader, linkRepo linkReader, baseURL string, cfg config.CacheConfig) (PageCache, error) {
	if vendors == nil {
		return nil, fmt.Errorf("vendor lookup required")
	}
	if items == nil {
		return nil, fmt.Errorf("menu reader required")
	}
	if linkRepo == nil {
		return nil, fmt.Errorf("link reader required")
	}
	size := cfg.PublicPageSize
	if size <= 0 {
		size = defaultPageCacheSize
	}
	ttl := cfg.PublicPageTTL
	if ttl <= 0 {
		ttl = defaultPageCacheTTL
	}
	cache, err := lru.New[string, pageEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	return &publicPages{
		vendors: vendors,
		menu:    items,
		links:   linkRepo,
		baseURL: baseURL,
		cache:   cache,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

func (p *publicPages) Get(ctx context.Context, raw string, viaSubdomain bool) (*PublicPageDTO, error) {
	key := slug.Normalize(raw)
	if key == "" || slug.IsReserved(key) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}

	page, err := p.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if viaSubdomain && !tier.Allows(page.Tier, tier.CapabilitySubdomain) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	}
	return page, nil
}

func (p *publicPages) load(ctx context.Context, key string) (*PublicPageDTO, error) {
	now := p.now()
	if entry, ok := p.cache.Get(key); ok {
		if now.Sub(entry.storedAt) < p.ttl {
			return entry.page, nil
		}
		p.cache.Remove(key)
	}

	vendor, err := p.vendors.FindBySlug(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	page, err := p.render(ctx, vendor)
	if err != nil {
		return nil, err
	}
	p.cache.Add(key, pageEntry{vendorID: vendor.ID, page: page, storedAt: now})
	return page, nil
}

// ForgetVendor evicts every cached page rendered for id, including entries
// still keyed by a slug the vendor no longer owns.
func (p *publicPages) ForgetVendor(id uuid.UUID) {
	for _, key := range p.cache.Keys() {
		if entry, ok := p.cache.Peek(key); ok && entry.vendorID == id {
			p.cache.Remove(key)
		}
	}
}

func (p *publicPages) render(ctx context.Context, vendor *models.Vendor) (*PublicPageDTO, error) {
	items, err := p.menu.ListByVendor(ctx, vendor.ID, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	social, err := p.links.ListSocial(ctx, vendor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list social links")
	}
	custom, err := p.links.ListCustom(ctx, vendor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list custom links")
	}

	page := &PublicPageDTO{
		Name:         vendor.Name,
		Slug:         vendor.Slug,
		Tier:         vendor.Tier,
		BrandColor:   vendor.BrandColor,
		LogoURL:      vendor.LogoURL,
		Address:      vendor.Address,
		Phone:        vendor.Phone,
		LocationName: vendor.LocationName,
		Latitude:     vendor.Latitude,
		Longitude:    vendor.Longitude,
		MenuItems:    menu.FromModels(items),
		SocialLinks:  links.SocialFromModels(social),
		CustomLinks:  links.CustomFromModels(custom),
		ShowAds:      tier.ShowAds(vendor.Tier),
		PublicURL:    resolver.PublicURL(vendor.Slug, vendor.Tier, p.baseURL),
	}
	if tier.Allows(vendor.Tier, tier.CapabilityBackgroundImage) {
		page.BackgroundImageURL = vendor.BackgroundImageURL
	}
	return page, nil
}
