package identitywebhook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mintalist/mintalist-backend/internal/vendors"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

type stubProvisioner struct {
	calls []string
	err   error
}

func (s *stubProvisioner) EnsureForIdentity(_ context.Context, userID string) (*vendors.VendorDTO, bool, error) {
	s.calls = append(s.calls, userID)
	if s.err != nil {
		return nil, false, s.err
	}
	return &vendors.VendorDTO{ID: uuid.New(), ClerkUserID: userID}, true, nil
}

func TestHandleEventUserCreated(t *testing.T) {
	stub := &stubProvisioner{}
	svc, err := NewService(stub, logger.Nop())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	data := json.RawMessage(`{"id":"user_42","primary_email_address_id":"e2","email_addresses":[{"id":"e1","email_address":"a@x.io"},{"id":"e2","email_address":"b@x.io"}]}`)

	if err := svc.HandleEvent(context.Background(), &Event{Type: EventUserCreated, Data: data}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(stub.calls) != 1 || stub.calls[0] != "user_42" {
		t.Fatalf("expected provisioning for user_42, got %v", stub.calls)
	}
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	stub := &stubProvisioner{}
	svc, _ := NewService(stub, logger.Nop())
	if err := svc.HandleEvent(context.Background(), &Event{Type: "user.updated", Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no provisioning")
	}
}

func TestHandleEventErrors(t *testing.T) {
	stub := &stubProvisioner{err: errors.New("db down")}
	svc, _ := NewService(stub, logger.Nop())

	err := svc.HandleEvent(context.Background(), &Event{Type: EventUserCreated, Data: json.RawMessage(`{"id":""}`)})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	err = svc.HandleEvent(context.Background(), &Event{Type: EventUserCreated, Data: json.RawMessage(`{"id":"user_1"}`)})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestPrimaryEmailFallsBackToFirst(t *testing.T) {
	var u userData
	if err := json.Unmarshal([]byte(`{"id":"u","email_addresses":[{"id":"e1","email_address":"first@x.io"}]}`), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := u.PrimaryEmail(); got != "first@x.io" {
		t.Fatalf("expected first email, got %q", got)
	}
}
