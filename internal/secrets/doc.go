// Package secrets provides the cryptographic core of HexaLock.
//
// # Key Derivation
//
// Passwords are stretched with Argon2id and a random 16-byte salt per file.
// The cost parameters are recorded in the file header, so files stay readable
// after the defaults change. Keys are 32 bytes and are wiped after use.
//
// # Payload Format
//
// Cipher.Encrypt produces a self-contained payload:
//
//	version(1) | timestamp(8, big-endian unix seconds) | nonce(24) | ciphertext | tag(16)
//
// XChaCha20-Poly1305 seals the plaintext; the version and timestamp are bound
// as associated data. Flipping any bit makes Decrypt fail with
// ErrAuthentication. A payload too short to hold the fixed fields fails with
// ErrFormat. An optional max age turns the timestamp into a freshness check.
//
// # File Format
//
// Encrypted files wrap the payload in an envelope:
//
//	"HXLK" | kdf(1) | time(4) | memory KiB(4) | threads(1) | salt(16) | payload
//
// Cipher.Seal and Cipher.Open go from password to envelope and back. Reading
// and writing the files themselves is left to the caller.
//
// # File Resolution
//
// ResolveFiles expands paths, directories and doublestar globs. Encrypted
// files use the .enc extension; default decryption output uses .dec.
package secrets
