package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt hash. The salt is generated per call
// and embedded in the output, so hashing the same plaintext twice yields
// different strings.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext against a stored hash. A malformed hash
// verifies false rather than erroring out; bcrypt compares in constant time.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// decoyHash is a well-formed bcrypt hash at the default cost. Its preimage is
// irrelevant: only the comparison cost matters.
const decoyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// BurnComparison spends one bcrypt verification and discards the result.
// Login calls it when no account matches the email, so an unknown account
// answers in the same time as a wrong password.
func BurnComparison(plain string) {
	_ = CheckPassword(decoyHash, plain)
}
