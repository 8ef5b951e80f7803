// Package casdoor implements identity.Store on top of a Casdoor
// deployment.
package casdoor

import (
	"context"
	"fmt"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"

	"github.com/ELYASDARK/uhc-admin-api/internal/identity"
)

// Config holds the Casdoor connection settings.
type Config struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
}

type Store struct {
	client *casdoorsdk.Client
	config Config
}

func NewStore(config Config) *Store {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.Organization,
		config.Application,
	)

	return &Store{client: client, config: config}
}

func (s *Store) CreateUser(ctx context.Context, p identity.CreateParams) (string, error) {
	if existing, err := s.client.GetUserByEmail(p.Email); err == nil && existing != nil {
		return "", identity.ErrEmailExists
	}

	id := uuid.NewString()
	user := &casdoorsdk.User{
		Owner:             s.config.Organization,
		Name:              id,
		Id:                id,
		DisplayName:       p.DisplayName,
		Email:             p.Email,
		Password:          p.Password,
		EmailVerified:     p.EmailVerified,
		SignupApplication: s.config.Application,
	}

	ok, err := s.client.AddUser(user)
	if err != nil {
		return "", mapError(err)
	}
	if !ok {
		return "", fmt.Errorf("casdoor: user %s not created", p.Email)
	}

	return id, nil
}

func (s *Store) UpdateEmail(ctx context.Context, userID, email string) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}

	user.Email = email
	ok, err := s.client.UpdateUserForColumns(user, []string{"email"})
	if err != nil {
		return mapError(err)
	}
	if !ok {
		return fmt.Errorf("casdoor: email not updated for %s", userID)
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, password string) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}

	user.Password = password
	ok, err := s.client.UpdateUserForColumns(user, []string{"password"})
	if err != nil {
		return mapError(err)
	}
	if !ok {
		return fmt.Errorf("casdoor: password not updated for %s", userID)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.getUser(userID)
	if err != nil {
		return err
	}

	ok, err := s.client.DeleteUser(user)
	if err != nil {
		return mapError(err)
	}
	if !ok {
		return fmt.Errorf("casdoor: user %s not deleted", userID)
	}
	return nil
}

func (s *Store) getUser(userID string) (*casdoorsdk.User, error) {
	user, err := s.client.GetUserByUserId(userID)
	if err != nil {
		return nil, mapError(err)
	}
	if user == nil {
		return nil, identity.ErrUserNotFound
	}
	return user, nil
}

// mapError converts Casdoor response messages onto the identity sentinel
// errors. Casdoor reports failures as plain message strings, so matching
// on the message text is the only hook available.
func mapError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "exist"):
		return identity.ErrEmailExists
	case strings.Contains(msg, "email") && strings.Contains(msg, "invalid"):
		return identity.ErrInvalidEmail
	case strings.Contains(msg, "password"):
		return identity.ErrWeakPassword
	case strings.Contains(msg, "not found"), strings.Contains(msg, "doesn't exist"):
		return identity.ErrUserNotFound
	}
	return err
}
