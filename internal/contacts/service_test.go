package contacts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mintalist/mintalist-backend/internal/repo/repotest"
	"github.com/mintalist/mintalist-backend/pkg/db/models"
	"github.com/mintalist/mintalist-backend/pkg/enums"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
	"github.com/mintalist/mintalist-backend/pkg/pagination"
)

type stubVendorLookup struct {
	vendor *models.Vendor
}

func (s stubVendorLookup) FindByClerkUserID(context.Context, string) (*models.Vendor, error) {
	if s.vendor == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.vendor, nil
}

func newTestService(t *testing.T) (Service, *models.Vendor, *gorm.DB) {
	t.Helper()
	conn := repotest.NewSQLite(t)
	phone := "+201000000000"
	vendor := &models.Vendor{ClerkUserID: "user_1", Name: "Cafe Nile", Slug: "cafe-nile", Tier: enums.TierFree, Phone: &phone}
	require.NoError(t, conn.Create(vendor).Error)
	svc, err := NewService(NewRepository(conn), stubVendorLookup{vendor: vendor}, logger.Nop())
	require.NoError(t, err)
	return svc, vendor, conn
}

func TestRequestUpgradeContactStoresLead(t *testing.T) {
	svc, vendor, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestUpgradeContact(ctx, "user_1", ""))
	require.NoError(t, svc.RecordOnboardingGold(ctx, vendor, "owner@example.com"))

	page, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	bySource := map[enums.ContactSource]ContactRequestDTO{}
	for _, item := range page.Items {
		bySource[item.Source] = item
	}
	upgrade := bySource[enums.ContactSourceUpgradeClick]
	assert.Equal(t, UnknownEmail, upgrade.VendorEmail)
	assert.Equal(t, "Cafe Nile", upgrade.VendorName)
	require.NotNil(t, upgrade.VendorPhone)
	assert.Equal(t, "owner@example.com", bySource[enums.ContactSourceOnboardingGold].VendorEmail)
}

func TestRequestUpgradeContactUnknownVendor(t *testing.T) {
	conn := repotest.NewSQLite(t)
	svc, err := NewService(NewRepository(conn), stubVendorLookup{}, logger.Nop())
	require.NoError(t, err)
	err = svc.RequestUpgradeContact(context.Background(), "ghost", "a@b.c")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestVisitsNewestFirstWithCursor(t *testing.T) {
	svc, _, conn := newTestService(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, name := range []string{"Old Bakery", "Mid Grill", "New Juice"} {
		visit := &models.VendorVisit{EmployeeName: "Sara", BusinessName: name, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, conn.Create(visit).Error)
	}

	page, err := svc.ListVisits(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "New Juice", page.Items[0].BusinessName)
	require.NotEmpty(t, page.NextCursor)

	page, err = svc.ListVisits(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Old Bakery", page.Items[0].BusinessName)

	_, err = svc.ListVisits(ctx, pagination.Params{Cursor: "!!"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateVisitValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	valid := func() CreateVisitInput {
		email := "sara@mintalist.com"
		contact := "Omar"
		phone := "+201111111111"
		gold := enums.Tier("paid_1")
		return CreateVisitInput{
			EmployeeName:  "Sara",
			EmployeeEmail: &email,
			BusinessName:  "Cafe",
			ContactName:   &contact,
			ContactPhone:  &phone,
			AgreedTier:    &gold,
		}
	}

	missingPhone := valid()
	missingPhone.ContactPhone = nil
	_, err := svc.CreateVisit(ctx, missingPhone)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	bogus := valid()
	tierValue := enums.Tier("GOLDISH")
	bogus.AgreedTier = &tierValue
	_, err = svc.CreateVisit(ctx, bogus)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	input := valid()
	notes := "  call back Sunday "
	input.Notes = &notes
	dto, err := svc.CreateVisit(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, dto.Notes)
	assert.Equal(t, "call back Sunday", *dto.Notes)
	require.NotNil(t, dto.AgreedTier)
	assert.Equal(t, enums.TierPaid1, *dto.AgreedTier)
}
