package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		size    int
		wantLen int
	}{
		{TokenSize128, 22},
		{TokenSize256, 43},
	}
	for _, tt := range tests {
		tok, err := GenerateToken(tt.size)
		require.NoError(t, err)
		require.Len(t, tok, tt.wantLen)
		require.NotContains(t, tok, "=")
	}

	_, err := GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	a := FingerprintToken("token-a")
	require.Equal(t, a, FingerprintToken("token-a"))
	require.NotEqual(t, a, FingerprintToken("token-b"))
	require.Len(t, a, 43)
}

func TestEqualTokens(t *testing.T) {
	require.True(t, EqualTokens("abc", "abc"))
	require.False(t, EqualTokens("abc", "abd"))
	require.False(t, EqualTokens("abc", ""))
}
