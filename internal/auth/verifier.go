// Package auth derives the admin authorization boolean from an external
// identity check and gates all mutating operations on it.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verifier delegates credential verification to an identity provider.
type Verifier interface {
	// Verify checks the password for the given account id. A nil
	// return means the credentials are valid.
	Verify(ctx context.Context, account, password string) error
}

// BcryptVerifier verifies a single fixed admin account against a stored
// bcrypt hash. Account id and hash are environment-configured.
type BcryptVerifier struct {
	account string
	hash    []byte
}

// NewBcryptVerifier creates a verifier for the fixed admin account.
func NewBcryptVerifier(account, passwordHash string) (*BcryptVerifier, error) {
	if account == "" || passwordHash == "" {
		return nil, fmt.Errorf("%w: account and password hash required", ErrBadCredentialConfig)
	}
	return &BcryptVerifier{
		account: account,
		hash:    []byte(passwordHash),
	}, nil
}

// DenyVerifier rejects every credential. Used when no admin hash is
// configured so the board stays readable but never mutable.
type DenyVerifier struct{}

// Verify always fails.
func (DenyVerifier) Verify(context.Context, string, string) error {
	return ErrInvalidCredentials
}

// Verify checks the supplied credentials. There is no lockout or
// throttling; failures simply leave the session unauthorized.
func (v *BcryptVerifier) Verify(_ context.Context, account, password string) error {
	if account != v.account {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
