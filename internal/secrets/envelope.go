package secrets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

const (
	envelopeMagic = "HXLK"

	// KDFArgon2id identifies Argon2id key derivation in an envelope header.
	KDFArgon2id byte = 0x01

	// magic(4) | kdf(1) | time(4) | memory(4) | threads(1) | salt(16)
	envelopeHeaderSize = len(envelopeMagic) + 1 + 4 + 4 + 1 + SaltSize
)

// Envelope is the on-disk container for an encrypted file. It carries
// everything needed to re-derive the key from the password.
type Envelope struct {
	KDF     KDFParams
	Salt    []byte
	Payload []byte
}

// EnvelopeInfo describes an envelope without decrypting it.
type EnvelopeInfo struct {
	KDF            KDFParams
	PayloadVersion byte
	CreatedAt      time.Time
	PayloadSize    int
}

// MarshalBinary encodes the envelope in its fixed-offset layout.
func (e *Envelope) MarshalBinary() ([]byte, error) {
	if len(e.Salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", kerrors.ErrFormat, SaltSize, len(e.Salt))
	}

	out := make([]byte, envelopeHeaderSize, envelopeHeaderSize+len(e.Payload))
	off := copy(out, envelopeMagic)
	out[off] = KDFArgon2id
	off++
	binary.BigEndian.PutUint32(out[off:], e.KDF.Time)
	off += 4
	binary.BigEndian.PutUint32(out[off:], e.KDF.MemoryKiB)
	off += 4
	out[off] = e.KDF.Threads
	off++
	copy(out[off:], e.Salt)

	return append(out, e.Payload...), nil
}

// ParseEnvelope decodes an envelope. It validates structure only; the payload
// is authenticated later by Cipher.Decrypt.
func ParseEnvelope(data []byte) (*Envelope, error) {
	if len(data) < envelopeHeaderSize {
		return nil, fmt.Errorf("%w: file is %d bytes, header needs %d", kerrors.ErrFormat, len(data), envelopeHeaderSize)
	}
	if !bytes.Equal(data[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return nil, fmt.Errorf("%w: not a hexalock file", kerrors.ErrFormat)
	}

	off := len(envelopeMagic)
	if data[off] != KDFArgon2id {
		return nil, fmt.Errorf("%w: unsupported key derivation %#x", kerrors.ErrFormat, data[off])
	}
	off++

	params := KDFParams{
		Time:      binary.BigEndian.Uint32(data[off:]),
		MemoryKiB: binary.BigEndian.Uint32(data[off+4:]),
		Threads:   data[off+8],
	}
	off += 9
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrFormat, err)
	}

	salt := make([]byte, SaltSize)
	copy(salt, data[off:off+SaltSize])

	return &Envelope{
		KDF:     params,
		Salt:    salt,
		Payload: data[envelopeHeaderSize:],
	}, nil
}

// Seal derives a key from password with a fresh salt and returns the encoded
// envelope around the encrypted plaintext.
func (c *Cipher) Seal(plaintext []byte, password string, params KDFParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	salt, err := NewSalt(c.rand)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	key := DeriveKey(password, salt, params)
	defer key.Wipe()

	payload, err := c.Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}

	env := &Envelope{KDF: params, Salt: salt, Payload: payload}
	return env.MarshalBinary()
}

// Open parses an envelope, re-derives the key and decrypts the payload.
func (c *Cipher) Open(data []byte, password string) ([]byte, error) {
	env, err := ParseEnvelope(data)
	if err != nil {
		return nil, err
	}

	key := DeriveKey(password, env.Salt, env.KDF)
	defer key.Wipe()

	return c.Decrypt(env.Payload, key)
}

// Inspect reports the header fields of an envelope without a password.
func Inspect(data []byte) (*EnvelopeInfo, error) {
	env, err := ParseEnvelope(data)
	if err != nil {
		return nil, err
	}

	created, err := Timestamp(env.Payload)
	if err != nil {
		return nil, err
	}

	return &EnvelopeInfo{
		KDF:            env.KDF,
		PayloadVersion: env.Payload[0],
		CreatedAt:      created,
		PayloadSize:    len(env.Payload),
	}, nil
}
