package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Passwords hashes and checks user passwords with bcrypt.
type Passwords struct {
	cost  int
	dummy []byte
}

func NewPasswords(cost int) (*Passwords, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth: bcrypt cost %d out of range", cost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("nerv-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: prepare dummy hash: %w", err)
	}
	return &Passwords{cost: cost, dummy: dummy}, nil
}

func (p *Passwords) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// Verify returns false on mismatch and on any bcrypt failure alike.
func (p *Passwords) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// VerifyUnknown burns one comparison against a fixed hash. Login calls it
// when the email is unknown so both failure paths cost the same.
func (p *Passwords) VerifyUnknown(plaintext string) bool {
	_ = bcrypt.CompareHashAndPassword(p.dummy, []byte(plaintext))
	return false
}
