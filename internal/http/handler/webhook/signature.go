package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	SignatureHeader = "X-Signature-256"
	signaturePrefix = "sha256="
)

var (
	ErrSignatureMissing  = errors.New("signature header missing")
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// VerifySignature checks header against HMAC-SHA256(secret, body). An empty secret
// disables verification.
func VerifySignature(secret string, body []byte, header string) error {
	if secret == "" {
		return nil
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return ErrSignatureMissing
	}

	got, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return ErrSignatureMismatch
	}
	if !hmac.Equal(got, Sign(secret, body)) {
		return ErrSignatureMismatch
	}
	return nil
}

func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// SignatureValue formats a signature the way callers send it.
func SignatureValue(secret string, body []byte) string {
	return signaturePrefix + hex.EncodeToString(Sign(secret, body))
}
