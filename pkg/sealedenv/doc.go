// Package sealedenv reads environment variables whose values may be
// stored in the ENCv1:<base64(nonce)>:<base64(ciphertext)> format.
//
// It mirrors the ergonomics of os.Getenv but decrypts sealed values
// transparently. When a value is encrypted, a 32-byte base64 key must
// be available - by default from the SEALED_KEY environment variable.
//
// # Quick start
//
//	secret, err := sealedenv.Var("DATABASE_PASSWORD")
//	flag, err := sealedenv.VarOrPlain("FEATURE_FLAG")
//	opt, ok, err := sealedenv.VarOptional("OPTIONAL_SECRET")
//
// # Policies
//
//   - Var: strict. The variable must be present and encrypted.
//   - VarOrPlain: lenient. A plaintext value passes through unchanged.
//   - VarOptional: like VarOrPlain, but an absent variable is ok=false
//     rather than an error.
//
// The three differ only in how they treat an absent variable or a
// plaintext value; a malformed envelope is always ErrCrypto.
//
// Key resolution is lazy: it happens only once an ENCv1: prefix is
// seen, so plaintext values are readable with no key configured.
//
// # Testing without process state
//
// The lookup is injectable, so code under test never has to touch the
// real environment:
//
//	env := sealedenv.New(
//	    sealedenv.WithLookup(func(name string) (string, bool) {
//	        v, ok := fixture[name]
//	        return v, ok
//	    }),
//	    sealedenv.WithKey(testKey),
//	)
//	secret, err := env.Var("DATABASE_PASSWORD")
package sealedenv
