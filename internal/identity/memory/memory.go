// Package memory implements identity.Store in process memory. It backs
// local development and tests; it mirrors the validation a hosted
// provider performs so workflows see the same error kinds.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ELYASDARK/uhc-admin-api/internal/identity"
)

const bcryptCost = 12

type account struct {
	email        string
	displayName  string
	passwordHash []byte
}

type Store struct {
	mu       sync.Mutex
	accounts map[string]*account
	emails   map[string]string
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		emails:   make(map[string]string),
	}
}

func (s *Store) CreateUser(ctx context.Context, p identity.CreateParams) (string, error) {
	if !strings.Contains(p.Email, "@") {
		return "", identity.ErrInvalidEmail
	}
	if len(p.Password) < 6 {
		return "", identity.ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[p.Email]; ok {
		return "", identity.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcryptCost)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	s.accounts[id] = &account{
		email:        p.Email,
		displayName:  p.DisplayName,
		passwordHash: hash,
	}
	s.emails[p.Email] = id

	return id, nil
}

func (s *Store) UpdateEmail(ctx context.Context, userID, email string) error {
	if !strings.Contains(email, "@") {
		return identity.ErrInvalidEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		return identity.ErrUserNotFound
	}
	if other, ok := s.emails[email]; ok && other != userID {
		return identity.ErrEmailExists
	}

	delete(s.emails, acct.email)
	acct.email = email
	s.emails[email] = userID
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, password string) error {
	if len(password) < 6 {
		return identity.ErrWeakPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		return identity.ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	acct.passwordHash = hash
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[userID]
	if !ok {
		return identity.ErrUserNotFound
	}

	delete(s.emails, acct.email)
	delete(s.accounts, userID)
	return nil
}

// Authenticate checks an email and password pair and returns the user id.
// Only development tooling uses it; the production provider issues its own
// sessions.
func (s *Store) Authenticate(ctx context.Context, email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[email]
	if !ok {
		return "", identity.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(s.accounts[id].passwordHash, []byte(password)); err != nil {
		return "", identity.ErrUserNotFound
	}
	return id, nil
}
