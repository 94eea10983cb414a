package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
)

// Digits is the length of a generated code.
const Digits = 6

var codeSpace = big.NewInt(1_000_000)

// Generator produces numeric codes uniformly over [0, 10^Digits).
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator reading from r, or crypto/rand when r is nil.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// Generate returns a zero-padded 6-digit code.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(g.rand, codeSpace)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrOTPGeneration, err)
	}
	return fmt.Sprintf("%0*d", Digits, n.Int64()), nil
}

// IsWellFormed reports whether code looks like a generated code.
func IsWellFormed(code string) bool {
	if len(code) != Digits {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
