package secrets

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// PayloadVersion marks XChaCha20-Poly1305 payloads with an 8-byte timestamp.
	PayloadVersion byte = 0x01

	timestampSize = 8
	headerSize    = 1 + timestampSize

	// NonceSize is the XChaCha20 nonce length. It is large enough that random
	// nonces never repeat under one key in practice.
	NonceSize = chacha20poly1305.NonceSizeX

	// TagSize is the Poly1305 authentication tag length.
	TagSize = chacha20poly1305.Overhead

	// MinPayloadSize is the size of a payload with an empty plaintext.
	MinPayloadSize = headerSize + NonceSize + TagSize

	// maxClockSkew is how far in the future a payload timestamp may be when a
	// max age is enforced.
	maxClockSkew = 60 * time.Second
)

// Cipher seals and opens payloads of the form
//
//	version(1) | timestamp(8) | nonce(24) | ciphertext | tag(16)
//
// The version and timestamp are authenticated as associated data.
type Cipher struct {
	rand   io.Reader
	now    func() time.Time
	maxAge time.Duration
}

// CipherOption configures a Cipher.
type CipherOption func(*Cipher)

// WithRandom replaces the nonce and salt source. Tests use it for determinism.
func WithRandom(r io.Reader) CipherOption {
	return func(c *Cipher) {
		c.rand = r
	}
}

// WithClock replaces the time source used for payload timestamps.
func WithClock(now func() time.Time) CipherOption {
	return func(c *Cipher) {
		c.now = now
	}
}

// WithMaxAge rejects payloads older than d on decrypt. Zero disables the check.
func WithMaxAge(d time.Duration) CipherOption {
	return func(c *Cipher) {
		c.maxAge = d
	}
}

// NewCipher returns a Cipher backed by crypto/rand and the wall clock.
func NewCipher(opts ...CipherOption) *Cipher {
	c := &Cipher{
		rand: rand.Reader,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encrypt seals plaintext under key with a fresh random nonce.
func (c *Cipher) Encrypt(plaintext []byte, key Key) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	out := make([]byte, headerSize+NonceSize, headerSize+NonceSize+len(plaintext)+TagSize)
	out[0] = PayloadVersion
	binary.BigEndian.PutUint64(out[1:headerSize], uint64(c.now().Unix()))

	nonce := out[headerSize : headerSize+NonceSize]
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return nil, fmt.Errorf("%w: failed to generate nonce: %v", kerrors.ErrEncryptFailed, err)
	}

	return aead.Seal(out, nonce, plaintext, out[:headerSize]), nil
}

// Decrypt opens a payload produced by Encrypt.
//
// Returns ErrFormat if the payload is too short to contain a header, nonce and tag.
// Returns ErrAuthentication if the tag does not verify, which covers a wrong key,
// any modified byte and an unknown version.
// Returns ErrPayloadExpired if a max age is set and the payload is outside it.
func (c *Cipher) Decrypt(payload []byte, key Key) ([]byte, error) {
	if len(payload) < MinPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, need at least %d",
			kerrors.ErrFormat, len(payload), MinPayloadSize)
	}
	if payload[0] != PayloadVersion {
		return nil, kerrors.ErrAuthentication
	}

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}

	header := payload[:headerSize]
	nonce := payload[headerSize : headerSize+NonceSize]
	sealed := payload[headerSize+NonceSize:]

	plaintext, err := aead.Open(nil, nonce, sealed, header)
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}

	if c.maxAge > 0 {
		created := timestampOf(payload)
		now := c.now()
		if now.Sub(created) > c.maxAge || created.Sub(now) > maxClockSkew {
			wipeBytes(plaintext)
			return nil, fmt.Errorf("%w: created %s", kerrors.ErrPayloadExpired, created.UTC().Format(time.RFC3339))
		}
	}

	return plaintext, nil
}

// Timestamp returns the creation time recorded in a payload.
// The value is not authenticated until the payload has been decrypted.
func Timestamp(payload []byte) (time.Time, error) {
	if len(payload) < MinPayloadSize {
		return time.Time{}, fmt.Errorf("%w: payload is %d bytes, need at least %d",
			kerrors.ErrFormat, len(payload), MinPayloadSize)
	}
	return timestampOf(payload), nil
}

func timestampOf(payload []byte) time.Time {
	return time.Unix(int64(binary.BigEndian.Uint64(payload[1:headerSize])), 0)
}
