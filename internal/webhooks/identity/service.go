package identitywebhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mintalist/mintalist-backend/internal/vendors"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

const EventUserCreated = "user.created"

// Event is the envelope the identity provider posts.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type userData struct {
	ID                    string  `json:"id"`
	PrimaryEmailAddressID *string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// PrimaryEmail returns the flagged primary address, else the first one.
func (u userData) PrimaryEmail() string {
	if u.PrimaryEmailAddressID != nil {
		for _, e := range u.EmailAddresses {
			if e.ID == *u.PrimaryEmailAddressID && e.EmailAddress != "" {
				return e.EmailAddress
			}
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

type vendorProvisioner interface {
	EnsureForIdentity(ctx context.Context, userID string) (*vendors.VendorDTO, bool, error)
}

// Service applies identity provider events.
type Service struct {
	vendors vendorProvisioner
	logg    *logger.Logger
}

func NewService(vendorSvc vendorProvisioner, logg *logger.Logger) (*Service, error) {
	if vendorSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendor service required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{vendors: vendorSvc, logg: logg}, nil
}

// HandleEvent provisions a vendor for user.created and ignores other types.
func (s *Service) HandleEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event is required")
	}
	if event.Type != EventUserCreated {
		return nil
	}

	var user userData
	if err := json.Unmarshal(event.Data, &user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode user payload")
	}
	if user.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id missing")
	}

	vendor, created, err := s.vendors.EnsureForIdentity(ctx, user.ID)
	if err != nil {
		var typed *pkgerrors.Error
		if errors.As(err, &typed) {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "provision vendor")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"user_id":   user.ID,
		"vendor_id": vendor.ID.String(),
		"email":     user.PrimaryEmail(),
		"created":   created,
	})
	s.logg.Info(ctx, "identity.user_created.synced")
	return nil
}
