package links

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
)

type linkRepository interface {
	ListSocial(ctx context.Context, vendorID uuid.UUID) ([]models.SocialLink, error)
	ListCustom(ctx context.Context, vendorID uuid.UUID) ([]models.CustomLink, error)
	FindSocial(ctx context.Context, vendorID, id uuid.UUID) (*models.SocialLink, error)
	FindSocialByPlatform(ctx context.Context, vendorID uuid.UUID, platform enums.SocialPlatform) (*models.SocialLink, error)
	FindCustom(ctx context.Context, vendorID, id uuid.UUID) (*models.CustomLink, error)
	CreateSocial(ctx context.Context, link *models.SocialLink) error
	SaveSocial(ctx context.Context, link *models.SocialLink) error
	CreateCustom(ctx context.Context, link *models.CustomLink) error
	SaveCustom(ctx context.Context, link *models.CustomLink) error
	DeleteSocial(ctx context.Context, vendorID, id uuid.UUID) (bool, error)
	DeleteCustom(ctx context.Context, vendorID, id uuid.UUID) (bool, error)
}

type vendorLookup interface {
	FindByClerkUserID(ctx context.Context, userID string) (*models.Vendor, error)
}

// Result carries whichever link kind an operation touched.
type Result struct {
	Social *SocialLinkDTO
	Custom *CustomLinkDTO
}

// Payload returns the populated link for serialization.
func (r Result) Payload() any {
	if r.Social != nil {
		return r.Social
	}
	return r.Custom
}

// Service exposes link management scoped to the calling vendor.
type Service interface {
	List(ctx context.Context, userID string) (*ListDTO, error)
	Create(ctx context.Context, userID string, input CreateLinkInput) (*Result, error)
	Update(ctx context.Context, userID string, linkID uuid.UUID, input UpdateLinkInput) (*Result, error)
	Delete(ctx context.Context, userID string, linkID uuid.UUID) error
}

type service struct {
	repo    linkRepository
	vendors vendorLookup
}

// NewService builds a link service with the provided repositories.
func NewService(repo linkRepository, vendors vendorLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("links repository required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor lookup required")
	}
	return &service{repo: repo, vendors: vendors}, nil
}

func (s *service) List(ctx context.Context, userID string) (*ListDTO, error) {
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}
	social, err := s.repo.ListSocial(ctx, vendor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list social links")
	}
	custom, err := s.repo.ListCustom(ctx, vendor.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list custom links")
	}
	return &ListDTO{
		SocialLinks: SocialFromModels(social),
		CustomLinks: CustomFromModels(custom),
	}, nil
}

func (s *service) Create(ctx context.Context, userID string, input CreateLinkInput) (*Result, error) {
	link := strings.TrimSpace(input.URL)
	if !IsHTTPURL(link) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "url must be an absolute http(s) url")
	}

	switch input.Type {
	case TypeSocial:
		if !input.Platform.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid platform")
		}
		vendor, err := s.vendor(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.upsertSocial(ctx, vendor.ID, input.Platform, link)
	case TypeCustom:
		title := strings.TrimSpace(input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		vendor, err := s.vendor(ctx, userID)
		if err != nil {
			return nil, err
		}
		row := &models.CustomLink{VendorID: vendor.ID, Title: title, URL: link}
		if err := s.repo.CreateCustom(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create custom link")
		}
		dto := CustomFromModel(row)
		return &Result{Custom: &dto}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be social or custom")
	}
}

// upsertSocial keeps one link per platform; a concurrent insert that loses
// the unique race falls back to updating the winner's row.
func (s *service) upsertSocial(ctx context.Context, vendorID uuid.UUID, platform enums.SocialPlatform, link string) (*Result, error) {
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := s.repo.FindSocialByPlatform(ctx, vendorID, platform)
		switch {
		case err == nil:
			existing.URL = link
			if err := s.repo.SaveSocial(ctx, existing); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update social link")
			}
			dto := SocialFromModel(existing)
			return &Result{Social: &dto}, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load social link")
		}

		row := &models.SocialLink{VendorID: vendorID, Platform: platform, URL: link}
		err = s.repo.CreateSocial(ctx, row)
		if err == nil {
			dto := SocialFromModel(row)
			return &Result{Social: &dto}, nil
		}
		if !db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create social link")
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "social link for platform already exists")
}

func (s *service) Update(ctx context.Context, userID string, linkID uuid.UUID, input UpdateLinkInput) (*Result, error) {
	var link string
	if input.URL != nil {
		link = strings.TrimSpace(*input.URL)
		if !IsHTTPURL(link) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "url must be an absolute http(s) url")
		}
	}

	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return nil, err
	}

	social, err := s.repo.FindSocial(ctx, vendor.ID, linkID)
	if err == nil {
		if input.Title != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "social links use platform, not title")
		}
		if input.Platform != nil {
			if !input.Platform.IsValid() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid platform")
			}
			social.Platform = *input.Platform
		}
		if input.URL != nil {
			social.URL = link
		}
		if err := s.repo.SaveSocial(ctx, social); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "social link for platform already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update social link")
		}
		dto := SocialFromModel(social)
		return &Result{Social: &dto}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load social link")
	}

	custom, err := s.repo.FindCustom(ctx, vendor.ID, linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load custom link")
	}
	if input.Platform != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "custom links use title, not platform")
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		custom.Title = title
	}
	if input.URL != nil {
		custom.URL = link
	}
	if err := s.repo.SaveCustom(ctx, custom); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update custom link")
	}
	dto := CustomFromModel(custom)
	return &Result{Custom: &dto}, nil
}

func (s *service) Delete(ctx context.Context, userID string, linkID uuid.UUID) error {
	vendor, err := s.vendor(ctx, userID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteSocial(ctx, vendor.ID, linkID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete social link")
	}
	if deleted {
		return nil
	}
	deleted, err = s.repo.DeleteCustom(ctx, vendor.ID, linkID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete custom link")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
	}
	return nil
}

func (s *service) vendor(ctx context.Context, userID string) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByClerkUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

// IsHTTPURL reports whether value is an absolute http or https URL with a host.
func IsHTTPURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
