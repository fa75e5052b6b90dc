package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password IsValidPassword accepts.
const MinPasswordLength = 8

// passwordSpecials are the characters that count as "special" for
// IsValidPassword.
const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

const (
	upperChars        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars        = "abcdefghijklmnopqrstuvwxyz"
	alnumChars        = upperChars + lowerChars + "0123456789"
	generatedSpecials = "!@#$%^&*()-_=+{}[]|:;<>?,./"
	// Specials present in both sets, so a generated password always
	// passes IsValidPassword.
	sharedSpecials    = "!@#$%^&*(){}|:<>?,."
)

// IsValidPassword reports whether pw is at least eight characters and has an
// ASCII digit, lower case letter, upper case letter and special character.
// Length counts runes, not bytes.
func IsValidPassword(pw string) bool {
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return false
	}
	var digit, lower, upper, special bool
	for _, r := range pw {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return digit && lower && upper && special
}

// GeneratePassword builds a random password for accounts created on a
// user's behalf: two upper, two lower, a number below 100, two specials and
// two alphanumerics, shuffled.
func GeneratePassword() (string, error) {
	var buf []byte
	pick := func(set string, n int) error {
		for range n {
			i, err := randIntn(len(set))
			if err != nil {
				return err
			}
			buf = append(buf, set[i])
		}
		return nil
	}

	steps := []struct {
		set string
		n   int
	}{
		{upperChars, 2},
		{lowerChars, 2},
		{sharedSpecials, 1},
		{generatedSpecials, 1},
		{alnumChars, 2},
	}
	for _, st := range steps {
		if err := pick(st.set, st.n); err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
	}
	num, err := randIntn(100)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	buf = append(buf, strconv.Itoa(num)...)

	// Fisher-Yates
	for i := len(buf) - 1; i > 0; i-- {
		j, err := randIntn(i + 1)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

func randIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
