package auth

import "golang.org/x/crypto/bcrypt"

// MinPasswordLen is the shortest password SignUp accepts.
const MinPasswordLen = 6

// HashPassword hashes the password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
