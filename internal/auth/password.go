package auth

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier compares a plaintext password against a stored credential.
type CredentialVerifier interface {
	Verify(hashed, plain string) error
}

// BcryptCredentials hashes and verifies passwords with bcrypt.
type BcryptCredentials struct {
	Cost int
}

// NewBcryptCredentials clamps cost into bcrypt's accepted range.
func NewBcryptCredentials(cost int) BcryptCredentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptCredentials{Cost: cost}
}

// Hash hashes a plaintext password with the configured cost.
func (b BcryptCredentials) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks a password against its hashed value.
func (b BcryptCredentials) Verify(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
