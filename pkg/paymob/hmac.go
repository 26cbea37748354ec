package paymob

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// callbackFields is the concatenation order Paymob signs transaction callbacks with.
var callbackFields = []string{
	"amount_cents",
	"created_at",
	"currency",
	"error_occured",
	"has_parent_transaction",
	"id",
	"integration_id",
	"is_3d_secure",
	"is_auth",
	"is_capture",
	"is_refunded",
	"order",
	"owner",
	"pending",
	"source_data_pan",
	"source_data_sub_type",
	"source_data_type",
	"success",
}

// SignCallback returns the lowercase hex HMAC-SHA256 of the callback fields.
// Missing fields contribute an empty string.
func SignCallback(params url.Values, secret string) string {
	var b strings.Builder
	for _, key := range callbackFields {
		b.WriteString(params.Get(key))
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback compares the supplied hmac parameter against the expected
// signature in constant time.
func VerifyCallback(params url.Values, secret string) bool {
	received := strings.ToLower(strings.TrimSpace(params.Get("hmac")))
	if received == "" {
		return false
	}
	expected := SignCallback(params, secret)
	return hmac.Equal([]byte(expected), []byte(received))
}
