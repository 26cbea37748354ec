package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mintalist/mintalist-backend/api/responses"
	identitywebhook "github.com/mintalist/mintalist-backend/internal/webhooks/identity"
	pkgerrors "github.com/mintalist/mintalist-backend/pkg/errors"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

const maxWebhookBytes = 1 << 20

type IdentityWebhookService interface {
	HandleEvent(ctx context.Context, event *identitywebhook.Event) error
}

type identityWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type signatureVerifier interface {
	Verify(id, timestamp, signatures string, payload []byte) error
}

// IdentityWebhook handles identity provider events such as user.created.
func IdentityWebhook(svc IdentityWebhookService, verifier signatureVerifier, guard identityWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if verifier == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook secret not configured"))
			return
		}
		if guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "idempotency guard unavailable"))
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		eventID := r.Header.Get(identitywebhook.HeaderID)
		if err := verifier.Verify(eventID, r.Header.Get(identitywebhook.HeaderTimestamp), r.Header.Get(identitywebhook.HeaderSignature), payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook signature"))
			return
		}

		var event identitywebhook.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid webhook payload"))
			return
		}

		alreadyProcessed, err := guard.CheckAndMark(ctx, eventID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
			return
		}
		if alreadyProcessed {
			responses.WriteSuccess(w, map[string]bool{"received": true})
			return
		}

		if err := svc.HandleEvent(ctx, &event); err != nil {
			_ = guard.Delete(ctx, eventID)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{"event_id": eventID, "event_type": event.Type})
			logg.Info(ctx, "identity.webhook.processed")
		}
		responses.WriteSuccess(w, map[string]bool{"received": true})
	}
}
