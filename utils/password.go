package utils

import (
	"github.com/matthewhartstonge/argon2"
)

var argonConfig = argon2.DefaultConfig()

func HashPassword(password string) (string, error) {
	encoded, err := argonConfig.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded argon2 hash.
// A malformed hash is treated as a mismatch.
func VerifyPassword(encodedHash, password string) bool {
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false
	}
	return ok
}
