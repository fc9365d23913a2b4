package util

import (
	"golang.org/x/crypto/bcrypt"
)

// cost 12 keeps hashing around 250ms on current hardware
const bcryptCost = 12

// HashPassword returns the bcrypt hash to store for a plaintext password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword reports whether password matches the stored hash
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
