package otp

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SixDigits(t *testing.T) {
	g := NewGenerator(nil)

	for i := 0; i < 200; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		assert.True(t, IsWellFormed(code), "code %q is not six digits", code)
	}
}

func TestGenerate_ZeroPadded(t *testing.T) {
	// An all-zero source makes rand.Int return 0.
	g := NewGenerator(bytes.NewReader(make([]byte, 64)))

	code, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
}

func TestGenerate_SourceFailure(t *testing.T) {
	g := NewGenerator(bytes.NewReader(nil))

	_, err := g.Generate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerrors.ErrOTPGeneration))
}

func TestIsWellFormed(t *testing.T) {
	assert.True(t, IsWellFormed("482913"))
	assert.True(t, IsWellFormed("000000"))
	assert.False(t, IsWellFormed("48291"))
	assert.False(t, IsWellFormed("4829130"))
	assert.False(t, IsWellFormed("48a913"))
	assert.False(t, IsWellFormed(""))
}
