package helpers

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the work factor for password digests.
const bcryptCost = 12

// HashPassword hashes the plain text password using bcrypt. Each call salts
// independently, so the same plaintext never yields the same digest twice.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword compares a bcrypt digest with a plain password. It reports
// false on any mismatch and never returns an error to the caller.
func CheckPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
