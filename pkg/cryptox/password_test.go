package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-*")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple", "password123"},
		{"symbols", "P@ssw0rd!#$%^&*()"},
		{"long", strings.Repeat("a", 100)},
		{"empty", ""},
		{"unicode", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m="))
			require.Len(t, strings.Split(hash, "$"), 6)
			require.NoError(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same")
	require.NoError(t, err)
	h2, err := HashPassword("same")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.NoError(t, VerifyPassword("same", h1))
	require.NoError(t, VerifyPassword("same", h2))
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", ""} {
		t.Run(wrong, func(t *testing.T) {
			require.ErrorIs(t, VerifyPassword(wrong, hash), ErrPasswordMismatch)
		})
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"plain text", "hunter2"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"bad params", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"bad salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
		{"bad hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("password", tt.hash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}

func TestVerifyPassword_LegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("OldPassword1!"), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, VerifyPassword("OldPassword1!", string(legacy)))
	require.ErrorIs(t, VerifyPassword("oldpassword1!", string(legacy)), ErrPasswordMismatch)
	require.True(t, NeedsRehash(string(legacy)))

	fresh, err := HashPassword("OldPassword1!")
	require.NoError(t, err)
	require.False(t, NeedsRehash(fresh))
}

func TestPepperPersistsAcrossReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "pepper")
	orig := pepperFile
	t.Cleanup(func() { SetPepperPath(orig) })

	SetPepperPath(file)
	first := GetPepper()
	require.NotEmpty(t, first)

	SetPepperPath(file)
	require.Equal(t, first, GetPepper())
}
