package secrets

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of a derived symmetric key (256 bits).
	KeySize = 32

	// SaltSize is the length of the per-file random salt.
	SaltSize = 16

	// maxKDFMemoryKiB bounds the memory cost accepted from an envelope header,
	// which is read before anything is authenticated. 1 GiB is 16 times the
	// default, so one flipped high bit is rejected instead of allocated.
	maxKDFMemoryKiB = 1024 * 1024
	maxKDFTime      = 64
)

// Key is a symmetric key derived from a password. It is never persisted.
type Key [KeySize]byte

// Wipe zeroes the key in place.
func (k *Key) Wipe() {
	for i := range k {
		k[i] = 0
	}
}

// KDFParams are the Argon2id cost parameters.
type KDFParams struct {
	Time      uint32 `toml:"time" env:"TIME"`
	MemoryKiB uint32 `toml:"memory_kib" env:"MEMORY_KIB"`
	Threads   uint8  `toml:"threads" env:"THREADS"`
}

// DefaultKDFParams follows the Argon2id recommendation of one pass over 64 MiB.
var DefaultKDFParams = KDFParams{
	Time:      1,
	MemoryKiB: 64 * 1024,
	Threads:   4,
}

// Validate checks the parameters are within the bounds we are willing to run.
func (p KDFParams) Validate() error {
	if p.Time < 1 || p.Time > maxKDFTime {
		return fmt.Errorf("argon2 time must be between 1 and %d, got %d", maxKDFTime, p.Time)
	}
	if p.Threads < 1 {
		return fmt.Errorf("argon2 threads must be at least 1")
	}
	if p.MemoryKiB < 8*uint32(p.Threads) || p.MemoryKiB > maxKDFMemoryKiB {
		return fmt.Errorf("argon2 memory must be between %d and %d KiB, got %d",
			8*uint32(p.Threads), maxKDFMemoryKiB, p.MemoryKiB)
	}
	return nil
}

// DeriveKey turns a password into a fixed-length key using Argon2id.
// The same password, salt and params always yield the same key.
func DeriveKey(password string, salt []byte, params KDFParams) Key {
	pw := []byte(password)
	derived := argon2.IDKey(pw, salt, params.Time, params.MemoryKiB, params.Threads, KeySize)

	var key Key
	copy(key[:], derived)

	wipeBytes(derived)
	wipeBytes(pw)
	return key
}

// NewSalt reads a fresh salt from r, or from crypto/rand when r is nil.
func NewSalt(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
