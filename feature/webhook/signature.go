package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"asset-sync/core/utils"
)

// Request headers of a signed delivery.
const (
	HeaderTimestamp = "X-Webhook-Timestamp"
	HeaderSignature = "X-Webhook-Signature"
	HeaderEventID   = "X-Webhook-Id"
	HeaderEventType = "X-Webhook-Event"
)

var (
	ErrNoSecret          = errors.New("connection has no webhook secret")
	ErrMissingSignature  = errors.New("missing signature headers")
	ErrInvalidTimestamp  = errors.New("invalid signature timestamp")
	ErrTimestampSkew     = errors.New("signature timestamp outside allowed window")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// Sign returns the hex HMAC-SHA256 of timestamp + "\n" + body.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(timestamp))
	_, _ = mac.Write([]byte("\n"))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a delivery signed with Sign. The timestamp is RFC3339 or unix
// seconds and must be within maxSkew of now; the signature may carry a
// "sha256=" prefix.
func Verify(secret, timestamp, signature string, body []byte, now time.Time, maxSkew time.Duration) error {
	if secret == "" {
		return ErrNoSecret
	}
	if timestamp == "" || signature == "" {
		return ErrMissingSignature
	}

	ts, ok := utils.ToTime(timestamp)
	if !ok {
		return ErrInvalidTimestamp
	}
	delta := now.Sub(ts)
	if delta < 0 {
		delta = -delta
	}
	if delta > maxSkew {
		return ErrTimestampSkew
	}

	got := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	want := Sign(secret, timestamp, body)
	if !hmac.Equal([]byte(got), []byte(want)) {
		return ErrSignatureMismatch
	}
	return nil
}
