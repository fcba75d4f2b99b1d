package token

import (
	"crypto/rand"
	"encoding/base64"
)

// secretLength is the length of a generated signing secret
const secretLength = 43

// Generate returns a crypto-secure random string of length n
// The random string contains the following characters:
// ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}

	b := make([]byte, base64.RawURLEncoding.DecodedLen(n)+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b)[0:n], nil
}

// Secret returns a random secret suitable for signing session tokens
func Secret() (string, error) {
	return Generate(secretLength)
}
