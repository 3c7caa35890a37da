// Package cookie builds, parses, signs and encrypts HTTP cookie values.
//
// The Manager is transport-agnostic: it produces *http.Cookie values for a
// response to carry and verifies raw strings taken from a request, so it
// works with any request representation that exposes headers.
//
// # Parsing
//
// Parse and FromHeader turn a Cookie header into a name/value map. Malformed
// entries are skipped rather than failing the whole header:
//
//	cookies := cookie.FromHeader(r.Header)
//	sid, ok := cookies["session_id"]
//
// # Signing
//
// Signed values detect tampering with HMAC-SHA256. The encoded form is
// base64url(payload).base64url(signature), without padding:
//
//	m := cookie.New(cookie.WithSecret(os.Getenv("COOKIE_SECRET")))
//	raw, err := m.Sign([]byte(`{"theme":"dark"}`))
//	payload, err := m.Verify(raw) // ErrBadSig on mismatch
//
// # Encryption
//
// Encrypted values use AES-256-GCM with a key derived from the secret:
//
//	raw, err := m.Encrypt([]byte("secret data"))
//	plain, err := m.Decrypt(raw) // ErrDecrypt on tampering
//
// Signing and encryption require a secret of at least 32 bytes; without one
// they return [ErrNoSecret].
//
// # Errors
//
//   - [ErrNotFound]: cookie does not exist
//   - [ErrNoSecret]: secret required for signed/encrypted operations
//   - [ErrBadSig]: signature verification failed
//   - [ErrDecrypt]: decryption failed
package cookie
