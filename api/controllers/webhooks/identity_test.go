package webhooks

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identitywebhook "github.com/mintalist/mintalist-backend/internal/webhooks/identity"
)

var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("identity-test-secret"))

func TestIdentityWebhook_SuccessAndIdempotent(t *testing.T) {
	verifier, err := identitywebhook.NewVerifier(testSecret, time.Minute)
	require.NoError(t, err)
	guard, err := identitywebhook.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "identity-webhook")
	require.NoError(t, err)
	service := &fakeIdentityService{}
	handler := IdentityWebhook(service, verifier, guard, nil)

	payload := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	for i := 0; i < 2; i++ {
		req := signedRequest(verifier, "msg_1", payload)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	assert.Equal(t, 1, service.calls)
	assert.Equal(t, identitywebhook.EventUserCreated, service.lastType)
}

func TestIdentityWebhook_InvalidSignature(t *testing.T) {
	verifier, err := identitywebhook.NewVerifier(testSecret, time.Minute)
	require.NoError(t, err)
	guard, err := identitywebhook.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "identity-webhook")
	require.NoError(t, err)
	service := &fakeIdentityService{}
	handler := IdentityWebhook(service, verifier, guard, nil)

	payload := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", bytes.NewReader(payload))
	req.Header.Set(identitywebhook.HeaderID, "msg_2")
	req.Header.Set(identitywebhook.HeaderTimestamp, fmt.Sprint(time.Now().Unix()))
	req.Header.Set(identitywebhook.HeaderSignature, "v1,"+base64.StdEncoding.EncodeToString([]byte("forged")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, service.calls)
}

func TestIdentityWebhook_MissingHeaders(t *testing.T) {
	verifier, err := identitywebhook.NewVerifier(testSecret, time.Minute)
	require.NoError(t, err)
	guard, err := identitywebhook.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "identity-webhook")
	require.NoError(t, err)
	handler := IdentityWebhook(&fakeIdentityService{}, verifier, guard, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdentityWebhook_FailureReleasesGuard(t *testing.T) {
	verifier, err := identitywebhook.NewVerifier(testSecret, time.Minute)
	require.NoError(t, err)
	guard, err := identitywebhook.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "identity-webhook")
	require.NoError(t, err)
	service := &fakeIdentityService{err: fmt.Errorf("db down")}
	handler := IdentityWebhook(service, verifier, guard, nil)

	payload := []byte(`{"type":"user.created","data":{"id":"user_2abc"}}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(verifier, "msg_3", payload))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	service.err = nil
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(verifier, "msg_3", payload))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, service.calls)
}

func signedRequest(verifier *identitywebhook.Verifier, id string, payload []byte) *http.Request {
	ts, sig := verifier.Sign(id, time.Now(), payload)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", bytes.NewReader(payload))
	req.Header.Set(identitywebhook.HeaderID, id)
	req.Header.Set(identitywebhook.HeaderTimestamp, ts)
	req.Header.Set(identitywebhook.HeaderSignature, sig)
	return req
}

type fakeIdentityService struct {
	calls    int
	lastType string
	err      error
}

func (f *fakeIdentityService) HandleEvent(_ context.Context, event *identitywebhook.Event) error {
	f.calls++
	f.lastType = event.Type
	return f.err
}

type inMemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{
		data: make(map[string]string),
	}
}

func (s *inMemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *inMemoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[key]; exists {
		return false, nil
	}
	s.data[key] = fmt.Sprintf("%v", value)
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("mintalist:idempotency:%s:%s", scope, id)
}

func (s *inMemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
