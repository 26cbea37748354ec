package identitywebhook

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func newTestVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("super-secret-key"))
	v, err := NewVerifier(secret, 0)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	now := time.Unix(1_780_000_000, 0)
	v := newTestVerifier(t, now)
	payload := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)

	ts, header := v.Sign("msg_1", now, payload)
	if err := v.Verify("msg_1", ts, "v1,bogus "+header, payload); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifyRejects(t *testing.T) {
	now := time.Unix(1_780_000_000, 0)
	v := newTestVerifier(t, now)
	payload := []byte(`{"type":"user.created"}`)
	ts, header := v.Sign("msg_1", now, payload)
	staleTS, staleHeader := v.Sign("msg_1", now.Add(-10*time.Minute), payload)

	cases := []struct {
		name      string
		id        string
		timestamp string
		signature string
		body      []byte
		want      error
	}{
		{"missing id", "", ts, header, payload, ErrMissingHeaders},
		{"missing signature", "msg_1", ts, "", payload, ErrMissingHeaders},
		{"tampered body", "msg_1", ts, header, []byte(`{"type":"user.deleted"}`), ErrInvalidSignature},
		{"other id", "msg_2", ts, header, payload, ErrInvalidSignature},
		{"bad timestamp", "msg_1", "yesterday", header, payload, ErrInvalidSignature},
		{"stale", "msg_1", staleTS, staleHeader, payload, ErrStaleTimestamp},
		{"wrong version", "msg_1", ts, "v2," + header[3:], payload, ErrInvalidSignature},
	}
	for _, tc := range cases {
		err := v.Verify(tc.id, tc.timestamp, tc.signature, tc.body)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier("whsec_", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewVerifier("whsec_!!!", time.Minute); err == nil {
		t.Fatalf("expected error for non-base64 secret")
	}
}
