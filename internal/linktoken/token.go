// Package linktoken issues and verifies the short-lived signed payloads a
// device scans to address a bound chat. The issuer is stateless; freshness
// is enforced by whoever verifies.
package linktoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Version is the payload schema tag.
const Version = "v1"

// DefaultWindow is the documented freshness window a verifier should apply.
const DefaultWindow = 10 * time.Minute

// Errors returned by Verify and Decode.
var (
	ErrBadSignature = errors.New("link token signature mismatch")
	ErrStale        = errors.New("link token outside freshness window")
	ErrBadVersion   = errors.New("link token version not supported")
	ErrMalformed    = errors.New("link token payload is malformed")
)

// Payload is a signed link token. Signature covers channel_id and
// issued_at; nothing here is persisted.
type Payload struct {
	Version   string `json:"v"`
	ChannelID string `json:"channel_id"`
	IssuedAt  int64  `json:"issued_at"`
	Signature string `json:"sig"`
}

// Issuer produces and verifies link token payloads with a shared secret.
type Issuer struct {
	secret []byte
}

// NewIssuer creates an issuer keyed by the shared link secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Issue builds a fresh payload for the given bound chat. Every call stamps
// the current time, so re-issuance always yields a new signature; older
// payloads simply age out at the verifier.
func (i *Issuer) Issue(channelID string, now time.Time) Payload {
	issuedAt := now.UTC().Unix()
	return Payload{
		Version:   Version,
		ChannelID: channelID,
		IssuedAt:  issuedAt,
		Signature: i.sign(channelID, issuedAt),
	}
}

// Verify recomputes the signature and checks the payload against the
// freshness window (DefaultWindow when window <= 0). Payloads stamped in
// the future are rejected as stale.
func (i *Issuer) Verify(p Payload, now time.Time, window time.Duration) error {
	if p.Version != Version {
		return ErrBadVersion
	}
	if strings.TrimSpace(p.ChannelID) == "" || p.IssuedAt <= 0 {
		return ErrMalformed
	}
	expected := i.sign(p.ChannelID, p.IssuedAt)
	if !hmac.Equal([]byte(expected), []byte(p.Signature)) {
		return ErrBadSignature
	}
	if window <= 0 {
		window = DefaultWindow
	}
	age := now.UTC().Sub(time.Unix(p.IssuedAt, 0).UTC())
	if age < 0 || age > window {
		return ErrStale
	}
	return nil
}

func (i *Issuer) sign(channelID string, issuedAt int64) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(channelID + "." + strconv.FormatInt(issuedAt, 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Encode serializes the payload for transit as base64url(JSON), suitable
// for a QR code or deep link.
func (p Payload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode link token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a payload produced by Encode. Decoding does not verify;
// call Verify on the result.
func Decode(raw string) (Payload, error) {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return Payload{}, ErrMalformed
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, ErrMalformed
	}
	return p, nil
}
