// Package account orchestrates admin account management across the
// identity provider and the document store. Every workflow is a single
// ordered pass over the two systems; there are no cross-store
// transactions and no rollback, so each partial-failure outcome is an
// explicit, documented state.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ELYASDARK/uhc-admin-api/internal/identity"
	"github.com/ELYASDARK/uhc-admin-api/internal/model"
	"github.com/ELYASDARK/uhc-admin-api/internal/repository"
	"github.com/ELYASDARK/uhc-admin-api/pkg/apperror"
)

const minPasswordLength = 6

type Servicer interface {
	CreateDoctor(ctx context.Context, callerID string, in CreateDoctorInput) (*CreateDoctorResult, error)
	UpdateDoctorEmail(ctx context.Context, callerID, doctorID, newEmail string) error
	DeleteDoctor(ctx context.Context, callerID, doctorID string) error
	ResetDoctorPassword(ctx context.Context, callerID, doctorID, newPassword string) error
	CreateUser(ctx context.Context, callerID string, in CreateUserInput) (string, error)
}

type Service struct {
	identity identity.Store
	users    repository.UserRepository
	doctors  repository.DoctorRepository
}

func NewService(identityStore identity.Store, users repository.UserRepository, doctors repository.DoctorRepository) *Service {
	return &Service{
		identity: identityStore,
		users:    users,
		doctors:  doctors,
	}
}

// CreateDoctorInput carries the fields for a new doctor account. Optional
// fields left at their zero value take the documented defaults.
type CreateDoctorInput struct {
	Email           string
	Password        string
	Name            string
	Specialization  string
	Department      string
	Bio             string
	ExperienceYears int
	ConsultationFee float64
	PhotoURL        *string
	PhoneNumber     *string
	Qualifications  []string
	WeeklySchedule  model.WeeklySchedule
	DateOfBirth     *time.Time
}

type CreateDoctorResult struct {
	UserID   string
	DoctorID string
}

// CreateDoctor provisions an identity account, a users document and a
// doctors document, in that order. If a document write fails after the
// identity account was created, nothing is rolled back; the identity
// account and any written document stay in place and the caller sees an
// internal error.
func (s *Service) CreateDoctor(ctx context.Context, callerID string, in CreateDoctorInput) (*CreateDoctorResult, error) {
	if err := s.requireAdmin(ctx, callerID, "create doctor accounts"); err != nil {
		return nil, err
	}

	if err := requireFields(map[string]string{
		"email":          in.Email,
		"password":       in.Password,
		"name":           in.Name,
		"specialization": in.Specialization,
	}, "email", "password", "name", "specialization"); err != nil {
		return nil, err
	}

	if len(in.Password) < minPasswordLength {
		return nil, apperror.InvalidArgument("Password must be at least 6 characters long")
	}

	userID, err := s.identity.CreateUser(ctx, identity.CreateParams{
		Email:         in.Email,
		Password:      in.Password,
		DisplayName:   "Dr. " + in.Name,
		EmailVerified: false,
	})
	if err != nil {
		log.Error().Err(err).Str("email", in.Email).Msg("identity account creation failed")
		return nil, mapIdentityCreateError(err, "Failed to create doctor account. Please try again.")
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:                   userID,
		Email:                in.Email,
		FullName:             in.Name,
		Role:                 model.RoleDoctor,
		PhoneNumber:          in.PhoneNumber,
		PhotoURL:             in.PhotoURL,
		DateOfBirth:          in.DateOfBirth,
		IsActive:             true,
		NotificationSettings: model.DefaultNotificationSettings(),
		Language:             model.DefaultLanguage,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.users.Set(ctx, user); err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("user document write failed after identity account creation")
		return nil, apperror.Internal("Failed to create doctor account. Please try again.", err)
	}

	doctor := &model.Doctor{
		UserID:          model.AccountRef(userID),
		Email:           in.Email,
		Name:            in.Name,
		PhotoURL:        in.PhotoURL,
		PhoneNumber:     in.PhoneNumber,
		Department:      in.Department,
		Specialization:  in.Specialization,
		Bio:             in.Bio,
		ExperienceYears: in.ExperienceYears,
		ConsultationFee: in.ConsultationFee,
		Qualifications:  in.Qualifications,
		IsAvailable:     true,
		IsActive:        true,
		WeeklySchedule:  in.WeeklySchedule,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if doctor.Department == "" {
		doctor.Department = model.DefaultDepartment
	}
	if doctor.Qualifications == nil {
		doctor.Qualifications = []string{}
	}
	if len(doctor.WeeklySchedule) == 0 {
		doctor.WeeklySchedule = model.DefaultWeeklySchedule()
	}

	doctorID, err := s.doctors.Add(ctx, doctor)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("doctor document write failed after identity account creation")
		return nil, apperror.Internal("Failed to create doctor account. Please try again.", err)
	}

	return &CreateDoctorResult{UserID: userID, DoctorID: doctorID}, nil
}

// UpdateDoctorEmail changes a doctor's email in the identity provider, the
// users document and the doctors document. Synthetic doctors have no
// backing account, so only the doctors document is touched for them.
// Downstream failures surface as a generic internal error with the
// original detail logged.
func (s *Service) UpdateDoctorEmail(ctx context.Context, callerID, doctorID, newEmail string) error {
	if err := s.requireAdmin(ctx, callerID, "update doctor accounts"); err != nil {
		return err
	}

	if err := requireFields(map[string]string{
		"doctorId": doctorID,
		"newEmail": newEmail,
	}, "doctorId", "newEmail"); err != nil {
		return err
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Doctor not found.")
		}
		return apperror.Internal("Failed to update doctor email.", err)
	}

	if doctor.UserID.Real() {
		userID := doctor.UserID.UserID()
		if err := s.identity.UpdateEmail(ctx, userID, newEmail); err != nil {
			log.Error().Err(err).Str("doctorId", doctorID).Str("userId", userID).Msg("identity email update failed")
			return apperror.Internal("Failed to update doctor email.", err)
		}
		if err := s.users.UpdateEmail(ctx, userID, newEmail); err != nil {
			log.Error().Err(err).Str("doctorId", doctorID).Str("userId", userID).Msg("user document email update failed after identity update")
			return apperror.Internal("Failed to update doctor email.", err)
		}
	}

	if err := s.doctors.UpdateEmail(ctx, doctorID, newEmail); err != nil {
		log.Error().Err(err).Str("doctorId", doctorID).Msg("doctor document email update failed")
		return apperror.Internal("Failed to update doctor email.", err)
	}

	return nil
}

// DeleteDoctor removes the doctor document and, when a real backing
// account exists, the identity account and users document too. An
// identity delete failure is swallowed so an already-removed account does
// not block the cascade.
func (s *Service) DeleteDoctor(ctx context.Context, callerID, doctorID string) error {
	if err := s.requireAdmin(ctx, callerID, "delete doctor accounts"); err != nil {
		return err
	}

	if err := requireFields(map[string]string{"doctorId": doctorID}, "doctorId"); err != nil {
		return err
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Doctor not found.")
		}
		return apperror.Internal("Failed to delete doctor account.", err)
	}

	if doctor.UserID.Real() {
		userID := doctor.UserID.UserID()
		if err := s.identity.DeleteUser(ctx, userID); err != nil {
			log.Warn().Err(err).Str("doctorId", doctorID).Str("userId", userID).Msg("identity account delete failed, continuing cascade")
		}
		if err := s.users.Delete(ctx, userID); err != nil {
			log.Error().Err(err).Str("doctorId", doctorID).Str("userId", userID).Msg("user document delete failed")
			return apperror.Internal("Failed to delete doctor account.", err)
		}
	}

	if err := s.doctors.Delete(ctx, doctorID); err != nil {
		log.Error().Err(err).Str("doctorId", doctorID).Msg("doctor document delete failed")
		return apperror.Internal("Failed to delete doctor account.", err)
	}

	return nil
}

// ResetDoctorPassword updates the identity-provider password for the
// doctor's backing account. Doctors without one cannot have a password
// reset.
func (s *Service) ResetDoctorPassword(ctx context.Context, callerID, doctorID, newPassword string) error {
	if err := s.requireAdmin(ctx, callerID, "reset doctor passwords"); err != nil {
		return err
	}

	if doctorID == "" {
		return apperror.InvalidArgument("Missing required fields: doctorId")
	}
	if len(newPassword) < minPasswordLength {
		return apperror.InvalidArgument("Password must be at least 6 characters long.")
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Doctor not found.")
		}
		return apperror.Internal("Failed to reset doctor password.", err)
	}

	if !doctor.UserID.Real() {
		return apperror.FailedPrecondition("This doctor does not have an associated auth account.")
	}

	if err := s.identity.UpdatePassword(ctx, doctor.UserID.UserID(), newPassword); err != nil {
		log.Error().Err(err).Str("doctorId", doctorID).Msg("identity password update failed")
		return apperror.Internal("Failed to reset doctor password.", err)
	}

	return nil
}

// CreateUserInput carries the fields for a new admin, student or staff
// account.
type CreateUserInput struct {
	Email       string
	Password    string
	FullName    string
	Role        model.Role
	PhoneNumber *string
	DateOfBirth *time.Time
	StudentID   *string
	StaffID     *string
	PhotoURL    *string
}

// CreateUser provisions an identity account and a users document for a
// non-doctor role. Doctor accounts must go through CreateDoctor so the
// doctor profile document is created alongside.
func (s *Service) CreateUser(ctx context.Context, callerID string, in CreateUserInput) (string, error) {
	if err := s.requireAdmin(ctx, callerID, "create user accounts"); err != nil {
		return "", err
	}

	if err := requireFields(map[string]string{
		"email":    in.Email,
		"password": in.Password,
		"fullName": in.FullName,
		"role":     string(in.Role),
	}, "email", "password", "fullName", "role"); err != nil {
		return "", err
	}

	if !in.Role.Generic() {
		return "", apperror.InvalidArgument("Invalid role. Must be admin, student, or staff.")
	}

	if len(in.Password) < minPasswordLength {
		return "", apperror.InvalidArgument("Password must be at least 6 characters long")
	}

	userID, err := s.identity.CreateUser(ctx, identity.CreateParams{
		Email:         in.Email,
		Password:      in.Password,
		DisplayName:   in.FullName,
		EmailVerified: false,
	})
	if err != nil {
		log.Error().Err(err).Str("email", in.Email).Msg("identity account creation failed")
		return "", mapIdentityCreateError(err, "Failed to create user account. Please try again.")
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:          userID,
		Email:       in.Email,
		FullName:    in.FullName,
		Role:        in.Role,
		PhoneNumber: in.PhoneNumber,
		PhotoURL:    in.PhotoURL,
		DateOfBirth: in.DateOfBirth,
		StudentID:   in.StudentID,
		StaffID:     in.StaffID,
		IsActive:    true,
		Language:    model.DefaultLanguage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Set(ctx, user); err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("user document write failed after identity account creation")
		return "", apperror.Internal("Failed to create user account. Please try again.", err)
	}

	return userID, nil
}

// requireAdmin is the gate every operation passes before validation or any
// write: the caller must carry a session and their users document must
// have the admin role.
func (s *Service) requireAdmin(ctx context.Context, callerID, action string) error {
	if callerID == "" {
		return apperror.Unauthenticated("You must be logged in to perform this action.")
	}

	caller, err := s.users.Get(ctx, callerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.PermissionDenied("Only admins can " + action + ".")
		}
		return apperror.Internal("Failed to verify permissions.", err)
	}
	if caller.Role != model.RoleAdmin {
		return apperror.PermissionDenied("Only admins can " + action + ".")
	}

	return nil
}

// requireFields reports the missing required fields collectively, in the
// declared order.
func requireFields(values map[string]string, order ...string) error {
	var missing []string
	for _, name := range order {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperror.InvalidArgument("Missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func mapIdentityCreateError(err error, fallback string) error {
	switch {
	case errors.Is(err, identity.ErrEmailExists):
		return apperror.AlreadyExists("A user with this email already exists.")
	case errors.Is(err, identity.ErrInvalidEmail):
		return apperror.InvalidArgument("The email address is invalid.")
	case errors.Is(err, identity.ErrWeakPassword):
		return apperror.InvalidArgument("The password is too weak.")
	}
	return apperror.Internal(fallback, err)
}
