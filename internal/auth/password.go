package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted, one-way bcrypt digest. Two calls with the
// same plaintext produce different strings; both verify.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
// bcrypt compares digests in constant time, so a wrong password and a
// malformed hash are not distinguishable by timing.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
