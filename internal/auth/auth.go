// Package auth implements the AuthProvider plugin (spec §1 collaborator
// interfaces, SPEC_FULL.md domain-stack addition): REGISTER_ACCOUNT /
// LOGIN_ACCOUNT framing is in scope; credential storage internals stay
// pluggable and out of the core's concern, per spec.md's "Account
// credentials ... are out of scope" Non-goal.
package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/hexateam/rtype-core/internal/coreerr"
)

// Provider is the pluggable credential check behind REGISTER_ACCOUNT and
// LOGIN_ACCOUNT wire messages.
type Provider interface {
	Register(username, password string) error
	Authenticate(username, password string) (ok bool, err error)
}

// InMemoryProvider is the default Provider: bcrypt-hashed passwords in a
// process-local map. Not a durable account store — swapped out by a host
// application that needs one, per the Non-goal.
type InMemoryProvider struct {
	mu    sync.Mutex
	users map[string][]byte // username -> bcrypt hash
	cost  int
}

func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		users: make(map[string][]byte),
		cost:  bcrypt.DefaultCost,
	}
}

// Register creates a new account. Fails if the username is already taken.
func (p *InMemoryProvider) Register(username, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[username]; exists {
		return fmt.Errorf("register %q: %w", username, coreerr.ErrProtocolViolation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return fmt.Errorf("register %q: %w", username, err)
	}
	p.users[username] = hash
	return nil
}

// Authenticate checks a username/password pair against the stored hash.
// A missing username and a wrong password are both reported as ok=false,
// nil — the caller should not be able to distinguish "no such user" from
// "wrong password" from the error alone.
func (p *InMemoryProvider) Authenticate(username, password string) (bool, error) {
	p.mu.Lock()
	hash, exists := p.users[username]
	p.mu.Unlock()
	if !exists {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return false, nil
		}
		return false, fmt.Errorf("authenticate %q: %w", username, err)
	}
	return true, nil
}
