package vendors

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/internal/links"
	"github.com/mintalist/mintalist-backend/internal/menu"
	"github.com/mintalist/mintalist-backend/pkg/db"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/resolver"
	"github.com/mintalist/mintalist-backend/pkg/slug"
	"github.com/mintalist/mintalist-backend/pkg/tier"
)

const (
	// DefaultName is used when a vendor is created before onboarding names it.
	DefaultName       = "New Vendor"
	DefaultBrandColor = "#10B981"
	minNameLength     = 2
	slugConstraint    = "slug"
	fallbackPrefix    = "vendor"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var errNoLongerPaid = errors.New("vendor is not on a paid tier")

type vendorRepository interface {
	FindByClerkUserID(ctx context.Context, userID string) (*models.Vendor, error)
	SlugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	Create(ctx context.Context, vendor *models.Vendor) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Downgrade(ctx context.Context, id uuid.UUID, newSlug string) (bool, error)
}

type menuReader interface {
	ListByVendor(ctx context.Context, vendorID uuid.UUID, availableOnly bool) ([]models.MenuItem, error)
}

type linkReader interface {
	ListSocial(ctx context.Context, vendorID uuid.UUID) ([]models.SocialLink, error)
	ListCustom(ctx context.Context, vendorID uuid.UUID) ([]models.CustomLink, error)
}

type leadRecorder interface {
	RecordOnboardingGold(ctx context.Context, vendor *models.Vendor, email string) error
}

// Service exposes the vendor self-service operations.
type Service interface {
	Me(ctx context.Context, userID string) (*MeDTO, error)
	Onboard(ctx context.Context, userID, email string, input OnboardingInput) (*OnboardingResult, error)
	EnsureForIdentity(ctx context.Context, userID string) (*VendorDTO, bool, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*VendorDTO, error)
	SlugAvailable(ctx context.Context, userID, candidate string) (bool, error)
	Downgrade(ctx context.Context, userID string) (*DowngradeResult, error)
}

// ServiceParams groups the vendor service dependencies.
type ServiceParams struct {
	Repo    vendorRepository
	Menu    menuReader
	Links   linkReader
	Leads   leadRecorder
	Pages   PageInvalidator
	BaseURL string
	Logger  *logger.Logger
	Now     func() time.Time
	NewSlug func() (string, error)
}

type service struct {
	repo    vendorRepository
	menu    menuReader
	links   linkReader
	leads   leadRecorder
	pages   PageInvalidator
	baseURL string
	logg    *logger.Logger
	now     func() time.Time
	newSlug func() (string, error)
}

// NewService builds the vendor service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if params.Menu == nil {
		return nil, fmt.Errorf("menu reader required")
	}
	if params.Links == nil {
		return nil, fmt.Errorf("link reader required")
	}
	if params.Leads == nil {
		return nil, fmt.Errorf("lead recorder required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	newSlug := params.NewSlug
	if newSlug == nil {
		newSlug = func() (string, error) { return slug.Random(slug.DefaultLength) }
	}
	return &service{
		repo:    params.Repo,
		menu:    params.Menu,
		links:   params.Links,
		leads:   params.Leads,
		pages:   params.Pages,
		baseURL: params.BaseURL,
		logg:    params.Logger,
		now:     now,
		newSlug: newSlug,
	}, nil
}

func (s *service) Me(ctx context.Context, userID string) (*MeDTO, error) {
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.menu.ListByVendor(ctx, vendor.ID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	social, err := s.links.ListSocial(ctx, vendor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list social links")
	}
	custom, err := s.links.ListCustom(ctx, vendor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list custom links")
	}
	return &MeDTO{
		VendorDTO:    *FromModel(vendor),
		MenuItems:    menu.FromModels(items),
		SocialLinks:  links.SocialFromModels(social),
		CustomLinks:  links.CustomFromModels(custom),
		Capabilities: tier.Summarize(vendor.Tier),
		PublicURL:    resolver.PublicURL(vendor.Slug, vendor.Tier, s.baseURL),
	}, nil
}

func (s *service) Onboard(ctx context.Context, userID, email string, input OnboardingInput) (*OnboardingResult, error) {
	if err := validateOnboarding(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByClerkUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	if existing == nil {
		brandColor := DefaultBrandColor
		if input.BrandColor != nil {
			brandColor = *input.BrandColor
		}
		name := DefaultName
		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			name = strings.TrimSpace(*input.Name)
		}
		draft := &models.Vendor{
			ClerkUserID:    userID,
			Name:           name,
			Tier:           enums.TierFree,
			BrandColor:     &brandColor,
			LogoURL:        optionalText(input.LogoURL),
			LocationName:   optionalText(input.LocationName),
			Address:        optionalText(input.Address),
			Phone:          optionalText(input.Phone),
			Latitude:       input.Latitude,
			Longitude:      input.Longitude,
			PlanPreference: input.PlanPreference,
		}
		vendor, created, err := s.create(ctx, draft)
		if err != nil {
			return nil, err
		}
		if created {
			s.recordGoldLead(ctx, vendor, email, nil, input.PlanPreference)
			id := vendor.ID
			return &OnboardingResult{OK: true, VendorID: &id}, nil
		}
		existing = vendor
	}

	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.BrandColor != nil {
		fields["brand_color"] = *input.BrandColor
	}
	if input.LogoURL != nil {
		fields["logo_url"] = optionalText(input.LogoURL)
	}
	if input.LocationName != nil {
		fields["location_name"] = optionalText(input.LocationName)
	}
	if input.Address != nil {
		fields["address"] = optionalText(input.Address)
	}
	if input.Phone != nil {
		fields["phone"] = optionalText(input.Phone)
	}
	if input.Latitude != nil {
		fields["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		fields["longitude"] = *input.Longitude
	}
	if input.PlanPreference != nil {
		fields["plan_preference"] = *input.PlanPreference
	}
	if err := s.repo.UpdateFields(ctx, existing.ID, fields); err != nil {
		return nil, translateWriteErr(err, "update vendor")
	}
	s.forgetPage(existing.ID)
	s.recordGoldLead(ctx, existing, email, existing.PlanPreference, input.PlanPreference)
	return &OnboardingResult{OK: true}, nil
}

// recordGoldLead appends an ONBOARDING_GOLD lead when the plan preference
// switches to the Gold trial. Failures are logged only.
func (s *service) recordGoldLead(ctx context.Context, vendor *models.Vendor, email string, previous, next *enums.PlanPreference) {
	if next == nil || *next != enums.PlanPreferenceGold1Month {
		return
	}
	if previous != nil && *previous == enums.PlanPreferenceGold1Month {
		return
	}
	if err := s.leads.RecordOnboardingGold(ctx, vendor, email); err != nil {
		ctx = s.logg.WithVendorID(ctx, vendor.ID.String())
		s.logg.Error(ctx, "vendor.onboarding.lead_failed", err)
	}
}

func (s *service) EnsureForIdentity(ctx context.Context, userID string) (*VendorDTO, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	existing, err := s.repo.FindByClerkUserID(ctx, userID)
	if err == nil {
		return FromModel(existing), false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	brandColor := DefaultBrandColor
	vendor, created, err := s.create(ctx, &models.Vendor{
		ClerkUserID: userID,
		Name:        DefaultName,
		Tier:        enums.TierFree,
		BrandColor:  &brandColor,
	})
	if err != nil {
		return nil, false, err
	}
	return FromModel(vendor), created, nil
}

// create inserts draft under a fresh random slug. A concurrent insert for the
// same identity returns the winner's row with created=false.
func (s *service) create(ctx context.Context, draft *models.Vendor) (*models.Vendor, bool, error) {
	_, err := s.assignSlug(fallbackPrefix, func(candidate string) error {
		draft.Slug = candidate
		return s.repo.Create(ctx, draft)
	})
	if err == nil {
		s.logg.Info(s.logg.WithVendorID(ctx, draft.ID.String()), "vendor.created")
		return draft, true, nil
	}
	if db.IsUniqueViolation(err, "clerk_user_id") {
		existing, findErr := s.repo.FindByClerkUserID(ctx, draft.ClerkUserID)
		if findErr != nil {
			return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load vendor")
		}
		return existing, false, nil
	}
	return nil, false, translateWriteErr(err, "create vendor")
}

// assignSlug runs write with random candidates until one clears the slug
// unique constraint, then falls back to a timestamped slug.
func (s *service) assignSlug(prefix string, write func(candidate string) error) (string, error) {
	var last string
	for attempt := 0; attempt < slug.MaxAttempts; attempt++ {
		candidate, err := s.newSlug()
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate slug")
		}
		last = candidate
		err = write(candidate)
		if err == nil {
			return candidate, nil
		}
		if !db.IsUniqueViolation(err, slugConstraint) {
			return "", err
		}
	}
	if prefix == "" {
		prefix = last
	}
	candidate := slug.Fallback(prefix, s.now())
	if err := write(candidate); err != nil {
		return "", err
	}
	return candidate, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*VendorDTO, error) {
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if utf8.RuneCountInString(name) < minNameLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must be at least 2 characters")
		}
		fields["name"] = name
	}
	if input.Slug != nil {
		candidate := slug.Normalize(*input.Slug)
		if candidate != vendor.Slug {
			if !slug.Valid(candidate) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be 2-63 characters of a-z, 0-9 or -")
			}
			if err := tier.Check(vendor.Tier, tier.CapabilityCustomSlug); err != nil {
				return nil, err
			}
			taken, err := s.repo.SlugTaken(ctx, candidate, vendor.ID)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
			}
			if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "this URL is already taken")
			}
			fields["slug"] = candidate
		}
	}
	if input.BrandColor != nil {
		if !hexColorPattern.MatchString(*input.BrandColor) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brandColor must be #RRGGBB")
		}
		fields["brand_color"] = *input.BrandColor
	}
	if input.LogoURL != nil {
		value, err := optionalURL(*input.LogoURL, "logoUrl")
		if err != nil {
			return nil, err
		}
		fields["logo_url"] = value
	}
	if input.BackgroundImageURL != nil {
		if err := tier.Check(vendor.Tier, tier.CapabilityBackgroundImage); err != nil {
			return nil, err
		}
		value, err := optionalURL(*input.BackgroundImageURL, "backgroundImageUrl")
		if err != nil {
			return nil, err
		}
		fields["background_image_url"] = value
	}
	if input.Address != nil {
		fields["address"] = optionalText(input.Address)
	}
	if input.Phone != nil {
		fields["phone"] = optionalText(input.Phone)
	}
	if input.LocationName != nil {
		fields["location_name"] = optionalText(input.LocationName)
	}
	if input.Latitude.Set {
		if v := input.Latitude.Value; v != nil && (*v < -90 || *v > 90) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "latitude must be between -90 and 90")
		}
		fields["latitude"] = input.Latitude.Value
	}
	if input.Longitude.Set {
		if v := input.Longitude.Value; v != nil && (*v < -180 || *v > 180) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "longitude must be between -180 and 180")
		}
		fields["longitude"] = input.Longitude.Value
	}

	if err := s.repo.UpdateFields(ctx, vendor.ID, fields); err != nil {
		return nil, translateWriteErr(err, "update vendor")
	}
	s.forgetPage(vendor.ID)
	updated, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) SlugAvailable(ctx context.Context, userID, candidate string) (bool, error) {
	candidate = slug.Normalize(candidate)
	if candidate == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return false, err
	}
	if candidate == vendor.Slug {
		return true, nil
	}
	if !slug.Valid(candidate) {
		return false, nil
	}
	taken, err := s.repo.SlugTaken(ctx, candidate, vendor.ID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	return !taken, nil
}

func (s *service) Downgrade(ctx context.Context, userID string) (*DowngradeResult, error) {
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !tier.IsPaid(vendor.Tier) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "already on the free plan")
	}

	newSlug, err := s.assignSlug("", func(candidate string) error {
		ok, err := s.repo.Downgrade(ctx, vendor.ID, candidate)
		if err != nil {
			return err
		}
		if !ok {
			return errNoLongerPaid
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errNoLongerPaid) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "already on the free plan")
		}
		return nil, translateWriteErr(err, "downgrade vendor")
	}
	s.forgetPage(vendor.ID)

	ctx = s.logg.WithFields(ctx, map[string]any{"vendor_id": vendor.ID.String(), "from_tier": vendor.Tier})
	s.logg.Info(ctx, "vendor.downgraded")
	return &DowngradeResult{OK: true, Tier: enums.TierFree, Slug: newSlug}, nil
}

func (s *service) forgetPage(id uuid.UUID) {
	if s.pages != nil {
		s.pages.ForgetVendor(id)
	}
}

func (s *service) vendor(ctx context.Context, userID string) (*models.Vendor, error) {
	vendor, err := s.repo.FindByClerkUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func validateOnboarding(input OnboardingInput) error {
	if input.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*input.Name)) < minNameLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must be at least 2 characters")
	}
	if input.BrandColor != nil && !hexColorPattern.MatchString(*input.BrandColor) {
		return pkgerrors.New(pkgerrors.CodeValidation, "brandColor must be #RRGGBB")
	}
	if input.LogoURL != nil {
		if _, err := optionalURL(*input.LogoURL, "logoUrl"); err != nil {
			return err
		}
	}
	if v := input.Latitude; v != nil && (*v < -90 || *v > 90) {
		return pkgerrors.New(pkgerrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if v := input.Longitude; v != nil && (*v < -180 || *v > 180) {
		return pkgerrors.New(pkgerrors.CodeValidation, "longitude must be between -180 and 180")
	}
	if input.PlanPreference != nil && !input.PlanPreference.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid planPreference")
	}
	return nil
}

func translateWriteErr(err error, action string) error {
	switch {
	case pkgerrors.As(err) != nil:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
	case db.IsUniqueViolation(err, slugConstraint):
		return pkgerrors.New(pkgerrors.CodeConflict, "this URL is already taken")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
	}
}

// optionalText trims value and maps blank input to NULL.
func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optionalURL(value, field string) (*string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if !links.IsHTTPURL(trimmed) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a valid url")
	}
	return &trimmed, nil
}
