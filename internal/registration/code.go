// Package registration implements the code-to-record binding pipeline:
// code normalization, hashed lookup, eligibility checks, and the binding
// state machine that links a chat to a provisioned device record.
package registration

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Registration codes are upper-case alphanumerics with optional hyphens.
// The short minimum rejects trivial guesses, the generous maximum rejects
// abuse. This is the single canonical input contract; no alternate
// normalizations are attempted.
const (
	codeMinLen = 6
	codeMaxLen = 64
)

var codePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// NormalizeCode canonicalizes raw user input into a comparable
// registration code: surrounding and internal whitespace is stripped and
// letters are upper-cased. Returns ErrInvalidFormat when the result does
// not match the code shape; callers must not attempt a lookup in that case.
func NormalizeCode(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	code := b.String()
	if len(code) < codeMinLen || len(code) > codeMaxLen {
		return "", ErrInvalidFormat
	}
	if !codePattern.MatchString(code) {
		return "", ErrInvalidFormat
	}
	return code, nil
}

// HashCode returns the hex-encoded HMAC-SHA256 digest of a canonical code
// keyed by the shared link secret. Provisioning and matching use the same
// function, so equality of digests is equality of codes.
func HashCode(code, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// GenerateCode returns a fresh 8-character registration code.
func GenerateCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
