// Package keys handles project key material: resolving a base64 key
// from its configured sources, validating it, and generating new keys.
package keys

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sealedlabs/sealed/internal/envelope"
)

// Size is the decoded key length required by the cipher.
const Size = envelope.KeySize

// ErrMissingKey indicates no key could be resolved from any source.
var ErrMissingKey = errors.New("no encryption key configured")

// Key is decoded, validated key material. It is held only for the
// duration of an encrypt/decrypt call; callers should Clear it after.
type Key []byte

// Resolve picks the key source: an explicit base64 value wins over the
// environment fallback. Both empty yields ErrMissingKey.
func Resolve(explicit, fallback string) (Key, error) {
	b64 := explicit
	if b64 == "" {
		b64 = fallback
	}
	if b64 == "" {
		return nil, ErrMissingKey
	}
	return Decode(b64)
}

// Decode validates a base64 key. The decoded length must be exactly
// Size; this is checked before any crypto operation runs.
func Decode(b64 string) (Key, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 key", envelope.ErrCrypto)
	}
	if len(raw) != Size {
		return nil, fmt.Errorf("%w: key must be %d bytes after base64 decode", envelope.ErrCrypto, Size)
	}
	return Key(raw), nil
}

// Generate returns a new cryptographically random key in base64 text
// form. This is the only operation that manufactures key material.
func Generate() (string, error) {
	raw := make([]byte, Size)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	b64 := base64.StdEncoding.EncodeToString(raw)
	Clear(raw)
	return b64, nil
}

// Clear zeroes key material in place.
func Clear(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
