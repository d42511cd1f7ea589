package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces the bcrypt hash stored in users.password_hash. Costs
// below bcrypt.MinCost are raised to bcrypt.DefaultCost by the library.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks plain against a stored hash in constant time. A
// malformed hash is reported as an error like any mismatch.
func ComparePassword(hashed, plain string) error {
	if hashed == "" {
		return bcrypt.ErrHashTooShort
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
