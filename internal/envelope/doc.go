// Package envelope implements the ENCv1 encrypted-value format.
//
// An encrypted value is a self-describing token:
//
//	ENCv1:<base64(nonce)>:<base64(ciphertext)>
//
// Both base64 fields use the standard padded alphabet, so the token
// always contains exactly two colons. Anything that does not start with
// the literal "ENCv1:" prefix is treated as plaintext, never as a
// decoding error; that is the signal lenient readers rely on.
//
// # Encryption
//
// Values are sealed with ChaCha20-Poly1305:
//
//   - 32-byte key
//   - 12-byte random nonce, fresh per call
//   - the variable name bound as associated data
//
// Binding the name means an envelope sealed for DATABASE_PASSWORD fails
// authentication if it is copied to API_KEY. Renaming a variable
// requires re-encrypting its value.
//
// # Errors
//
// Every failure mode past the prefix check (wrong field count, invalid
// base64, bad nonce length, wrong key, tampered ciphertext) collapses
// into the single ErrCrypto value. Callers cannot tell a wrong key from
// tampered data, and must not be able to.
package envelope
