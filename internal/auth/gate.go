// Package auth implements the shared edit passphrase gate.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/khru/internal/common"
)

// PassphraseGate compares a passphrase against a bcrypt hash.
type PassphraseGate struct {
	hash []byte
}

// NewPassphraseGate builds a gate from a stored bcrypt hash, or from a plain
// passphrase when no hash is configured.
func NewPassphraseGate(hash, plain string) (*PassphraseGate, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("%w: passphrase hash: %w", common.ErrInvalidConfig, err)
		}
		return &PassphraseGate{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, fmt.Errorf("%w: auth.passphrase or auth.passphrase_hash", common.ErrMissingConfig)
	}
	h, err := HashPassphrase(plain)
	if err != nil {
		return nil, err
	}
	return &PassphraseGate{hash: []byte(h)}, nil
}

// Check returns nil when passphrase matches.
func (g *PassphraseGate) Check(passphrase string) error {
	err := bcrypt.CompareHashAndPassword(g.hash, []byte(passphrase))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("%w: wrong passphrase", common.ErrUnauthorized)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}
	return nil
}

// HashPassphrase produces a bcrypt hash suitable for auth.passphrase_hash.
func HashPassphrase(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: empty passphrase", common.ErrInvalidInput)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passphrase: %w", err)
	}
	return string(h), nil
}
