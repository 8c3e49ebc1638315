package sealedenv

import (
	"errors"
	"fmt"
	"os"

	"github.com/sealedlabs/sealed/internal/envelope"
	"github.com/sealedlabs/sealed/internal/keys"
)

// DefaultKeyVar is the environment fallback holding the base64 key.
const DefaultKeyVar = "SEALED_KEY"

// Sentinel errors, matched with errors.Is.
var (
	// ErrMissingVar reports a variable that is not set.
	ErrMissingVar = errors.New("environment variable is not set")

	// ErrMissingKey reports that no key could be resolved when one was
	// needed. Never returned for plaintext-only reads.
	ErrMissingKey = keys.ErrMissingKey

	// ErrNotEncrypted reports a present but unencrypted value in strict
	// mode.
	ErrNotEncrypted = envelope.ErrNotEncrypted

	// ErrCrypto is the single undifferentiated cryptographic failure.
	ErrCrypto = envelope.ErrCrypto
)

// LookupFunc fetches a raw value by name, reporting presence.
type LookupFunc func(name string) (string, bool)

// Env reads possibly-encrypted variables through an injected lookup.
// The zero configuration (New with no options) reads the process
// environment with the SEALED_KEY fallback.
type Env struct {
	lookup LookupFunc
	keyVar string
	key    string
}

// Option configures an Env.
type Option func(*Env)

// WithLookup replaces the process-environment lookup.
func WithLookup(fn LookupFunc) Option {
	return func(e *Env) { e.lookup = fn }
}

// WithKey supplies an explicit base64 key, taking precedence over the
// environment fallback.
func WithKey(b64 string) Option {
	return func(e *Env) { e.key = b64 }
}

// WithKeyVar renames the environment fallback variable.
func WithKeyVar(name string) Option {
	return func(e *Env) { e.keyVar = name }
}

// New builds an Env. Nothing is resolved or cached here; every read
// fetches the value, and the key when needed, fresh.
func New(opts ...Option) *Env {
	e := &Env{lookup: os.LookupEnv, keyVar: DefaultKeyVar}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Var is the strict read: the variable must be present and encrypted.
// Use VarOrPlain to let plaintext values pass through.
func (e *Env) Var(name string) (string, error) {
	value, ok := e.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingVar, name)
	}
	if !envelope.IsEncrypted(value) {
		return "", fmt.Errorf("%w: %s", ErrNotEncrypted, name)
	}
	return e.open(name, value)
}

// VarOrPlain is the lenient read: an encrypted value is decrypted, a
// plaintext value is returned unchanged without touching the key.
func (e *Env) VarOrPlain(name string) (string, error) {
	value, ok := e.lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingVar, name)
	}
	if !envelope.IsEncrypted(value) {
		return value, nil
	}
	return e.open(name, value)
}

// VarOptional is the optional read: an absent variable is (_, false,
// nil) rather than an error. Present values follow the lenient rule.
func (e *Env) VarOptional(name string) (string, bool, error) {
	value, ok := e.lookup(name)
	if !ok {
		return "", false, nil
	}
	if !envelope.IsEncrypted(value) {
		return value, true, nil
	}
	plaintext, err := e.open(name, value)
	if err != nil {
		return "", false, err
	}
	return plaintext, true, nil
}

// open resolves the key (only now - resolution is lazy) and decrypts.
func (e *Env) open(name, value string) (string, error) {
	fallback, _ := e.lookup(e.keyVar)
	key, err := keys.Resolve(e.key, fallback)
	if err != nil {
		return "", err
	}
	defer keys.Clear(key)

	return envelope.OpenString(key, name, value)
}

// Var reads name from the process environment, strict policy.
func Var(name string) (string, error) { return New().Var(name) }

// VarOrPlain reads name from the process environment, lenient policy.
func VarOrPlain(name string) (string, error) { return New().VarOrPlain(name) }

// VarOptional reads name from the process environment, optional policy.
func VarOptional(name string) (string, bool, error) { return New().VarOptional(name) }
