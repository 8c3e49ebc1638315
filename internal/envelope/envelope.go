package envelope

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// Prefix tags every encrypted value. The version is part of the
	// literal; a future ENCv2 would be a different prefix, not a
	// parameter of this one.
	Prefix = "ENCv1:"

	KeySize   = chacha20poly1305.KeySize
	NonceSize = chacha20poly1305.NonceSize
)

var (
	// ErrNotEncrypted reports a value without the ENCv1: prefix.
	ErrNotEncrypted = errors.New("value is not encrypted")

	// ErrCrypto covers every cryptographic failure: malformed envelope,
	// bad base64, wrong key, tampered data. Deliberately one value.
	ErrCrypto = errors.New("decryption failed (bad key or data)")
)

// IsEncrypted reports whether value carries the exact ENCv1: prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Seal encrypts plaintext under key, binding name as associated data,
// and returns the textual envelope. A fresh random nonce is generated
// per call.
func Seal(key []byte, name string, plaintext []byte) (string, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return "", fmt.Errorf("%w: key must be %d bytes", ErrCrypto, KeySize)
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, []byte(name))

	return Prefix +
		base64.StdEncoding.EncodeToString(nonce) + ":" +
		base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts an ENCv1 envelope sealed for name and returns the
// plaintext bytes. A value without the prefix returns ErrNotEncrypted;
// everything else that can go wrong returns ErrCrypto.
func Open(key []byte, name, value string) ([]byte, error) {
	if !IsEncrypted(value) {
		return nil, ErrNotEncrypted
	}

	nonce, ciphertext, err := split(value)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrCrypto
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(name))
	if err != nil {
		return nil, ErrCrypto
	}

	return plaintext, nil
}

// OpenString is Open for callers that need text. Plaintext that is not
// valid UTF-8 is reported as ErrCrypto.
func OpenString(key []byte, name, value string) (string, error) {
	plaintext, err := Open(key, name, value)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", ErrCrypto)
	}
	return string(plaintext), nil
}

// split parses the two base64 fields after the prefix.
func split(value string) (nonce, ciphertext []byte, err error) {
	fields := strings.Split(value[len(Prefix):], ":")
	if len(fields) != 2 {
		return nil, nil, ErrCrypto
	}

	nonce, err = base64.StdEncoding.DecodeString(fields[0])
	if err != nil || len(nonce) != NonceSize {
		return nil, nil, ErrCrypto
	}

	ciphertext, err = base64.StdEncoding.DecodeString(fields[1])
	if err != nil {
		return nil, nil, ErrCrypto
	}

	return nonce, ciphertext, nil
}
