package repository

import (
	"context"
	"errors"

	"github.com/ELYASDARK/uhc-admin-api/internal/model"
)

// ErrNotFound is returned when a document does not exist in its
// collection.
var ErrNotFound = errors.New("repository: document not found")

// UserRepository manages the users collection, keyed by identity-provider
// user id.
type UserRepository interface {
	Get(ctx context.Context, id string) (*model.User, error)
	Set(ctx context.Context, user *model.User) error
	UpdateEmail(ctx context.Context, id, email string) error
	Delete(ctx context.Context, id string) error
}

// DoctorRepository manages the doctors collection. Add generates the
// document id and returns it.
type DoctorRepository interface {
	Get(ctx context.Context, id string) (*model.Doctor, error)
	Add(ctx context.Context, doctor *model.Doctor) (string, error)
	UpdateEmail(ctx context.Context, id, email string) error
	Delete(ctx context.Context, id string) error
}
