package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/pagination"
	"github.com/mintalist/mintalist-backend/pkg/types"
)

type contactRepository interface {
	CreateRequest(ctx context.Context, req *models.ContactRequest) error
	ListRequests(ctx context.Context, params pagination.Params) ([]models.ContactRequest, string, error)
	CreateVisit(ctx context.Context, visit *models.VendorVisit) error
	ListVisits(ctx context.Context, params pagination.Params) ([]models.VendorVisit, string, error)
}

type vendorLookup interface {
	FindByClerkUserID(ctx context.Context, userID string) (*models.Vendor, error)
}

// Service captures sales leads from vendors and the field team.
type Service interface {
	RequestUpgradeContact(ctx context.Context, userID, email string) error
	RecordOnboardingGold(ctx context.Context, vendor *models.Vendor, email string) error
	List(ctx context.Context, params pagination.Params) (*types.Page[ContactRequestDTO], error)
	CreateVisit(ctx context.Context, input CreateVisitInput) (*VendorVisitDTO, error)
	ListVisits(ctx context.Context, params pagination.Params) (*types.Page[VendorVisitDTO], error)
}

type service struct {
	repo    contactRepository
	vendors vendorLookup
	logg    *logger.Logger
}

func NewService(repo contactRepository, vendors vendorLookup, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contacts repository required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, vendors: vendors, logg: logg}, nil
}

func (s *service) RequestUpgradeContact(ctx context.Context, userID, email string) error {
	vendor, err := s.vendors.FindByClerkUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return s.record(ctx, vendor, email, enums.ContactSourceUpgradeClick)
}

func (s *service) RecordOnboardingGold(ctx context.Context, vendor *models.Vendor, email string) error {
	if vendor == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor is required")
	}
	return s.record(ctx, vendor, email, enums.ContactSourceOnboardingGold)
}

func (s *service) record(ctx context.Context, vendor *models.Vendor, email string, source enums.ContactSource) error {
	email = strings.TrimSpace(email)
	if email == "" {
		email = UnknownEmail
	}
	req := &models.ContactRequest{
		VendorID:    vendor.ID,
		VendorName:  vendor.Name,
		VendorEmail: email,
		VendorPhone: vendor.Phone,
		Source:      source,
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact request")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"vendor_id": vendor.ID.String(), "source": source})
	s.logg.Info(ctx, "contact.request.recorded")
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*types.Page[ContactRequestDTO], error) {
	rows, next, err := s.repo.ListRequests(ctx, params)
	if err != nil {
		return nil, pageErr(err, "list contact requests")
	}
	items := make([]ContactRequestDTO, 0, len(rows))
	for i := range rows {
		items = append(items, RequestFromModel(&rows[i]))
	}
	return &types.Page[ContactRequestDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) CreateVisit(ctx context.Context, input CreateVisitInput) (*VendorVisitDTO, error) {
	employee := strings.TrimSpace(input.EmployeeName)
	business := strings.TrimSpace(input.BusinessName)
	employeeEmail := trimmed(input.EmployeeEmail)
	contactName := trimmed(input.ContactName)
	contactPhone := trimmed(input.ContactPhone)
	if employee == "" || business == "" || employeeEmail == nil || contactName == nil || contactPhone == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employeeName, employeeEmail, businessName, contactName, contactPhone are required")
	}
	if input.AgreedTier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agreedTier must be FREE, PAID_1, or PAID_2")
	}
	agreed := enums.Tier(strings.ToUpper(strings.TrimSpace(string(*input.AgreedTier))))
	if !agreed.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agreedTier must be FREE, PAID_1, or PAID_2")
	}
	visit := &models.VendorVisit{
		EmployeeName:  employee,
		EmployeeEmail: employeeEmail,
		BusinessName:  business,
		ContactName:   contactName,
		ContactPhone:  contactPhone,
		ContactEmail:  trimmed(input.ContactEmail),
		Address:       trimmed(input.Address),
		LocationName:  trimmed(input.LocationName),
		AgreedTier:    &agreed,
		Notes:         trimmed(input.Notes),
	}
	if err := s.repo.CreateVisit(ctx, visit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor visit")
	}
	dto := VisitFromModel(visit)
	return &dto, nil
}

func (s *service) ListVisits(ctx context.Context, params pagination.Params) (*types.Page[VendorVisitDTO], error) {
	rows, next, err := s.repo.ListVisits(ctx, params)
	if err != nil {
		return nil, pageErr(err, "list vendor visits")
	}
	items := make([]VendorVisitDTO, 0, len(rows))
	for i := range rows {
		items = append(items, VisitFromModel(&rows[i]))
	}
	return &types.Page[VendorVisitDTO]{Items: items, NextCursor: next}, nil
}

// pageErr keeps cursor validation errors intact.
func pageErr(err error, action string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
