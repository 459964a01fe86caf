package gitcli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackmuncher/stm-app/internal/gitcli"
)

func TestNewHash_NormalizesCase(t *testing.T) {
	t.Parallel()

	h, err := gitcli.NewHash("  ABCDEF0123456789  ")
	require.NoError(t, err)
	assert.Equal(t, "abcdef0123456789", h.String())
	assert.False(t, h.IsZero())
}

func TestNewHash_RejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := gitcli.NewHash("   ")
	require.ErrorIs(t, err, gitcli.ErrInvalidHash)
}

func TestNewHash_RejectsNonHex(t *testing.T) {
	t.Parallel()

	_, err := gitcli.NewHash("not-hex-zzz")
	require.ErrorIs(t, err, gitcli.ErrInvalidHash)
}

func TestZeroHash_IsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, gitcli.ZeroHash.IsZero())
}
