package account

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ELYASDARK/uhc-admin-api/internal/identity"
	"github.com/ELYASDARK/uhc-admin-api/internal/model"
	"github.com/ELYASDARK/uhc-admin-api/internal/repository"
	"github.com/ELYASDARK/uhc-admin-api/pkg/apperror"
)

type fakeIdentity struct {
	nextID     int
	created    []identity.CreateParams
	emails     map[string]string
	passwords  map[string]string
	deleted    []string
	createErr  error
	updateErr  error
	deleteErr  error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		emails:    make(map[string]string),
		passwords: make(map[string]string),
	}
}

func (f *fakeIdentity) CreateUser(ctx context.Context, p identity.CreateParams) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := "uid-" + strconv.Itoa(f.nextID)
	f.created = append(f.created, p)
	return id, nil
}

func (f *fakeIdentity) UpdateEmail(ctx context.Context, userID, email string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.emails[userID] = email
	return nil
}

func (f *fakeIdentity) UpdatePassword(ctx context.Context, userID, password string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.passwords[userID] = password
	return nil
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, userID string) error {
	f.deleted = append(f.deleted, userID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return nil
}

type fakeUserRepo struct {
	docs    map[string]*model.User
	setErr  error
	updated map[string]string
	deleted []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		docs:    make(map[string]*model.User),
		updated: make(map[string]string),
	}
}

func (f *fakeUserRepo) Get(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Set(ctx context.Context, user *model.User) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.docs[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateEmail(ctx context.Context, id, email string) error {
	f.updated[id] = email
	if u, ok := f.docs[id]; ok {
		u.Email = email
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

type fakeDoctorRepo struct {
	docs    map[string]*model.Doctor
	nextID  int
	addErr  error
	updated map[string]string
	deleted []string
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{
		docs:    make(map[string]*model.Doctor),
		updated: make(map[string]string),
	}
}

func (f *fakeDoctorRepo) Get(ctx context.Context, id string) (*model.Doctor, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) Add(ctx context.Context, doctor *model.Doctor) (string, error) {
	if f.addErr != nil {
		return "", f.addErr
	}
	f.nextID++
	id := "doc-" + strconv.Itoa(f.nextID)
	f.docs[id] = doctor
	return id, nil
}

func (f *fakeDoctorRepo) UpdateEmail(ctx context.Context, id, email string) error {
	f.updated[id] = email
	if d, ok := f.docs[id]; ok {
		d.Email = email
	}
	return nil
}

func (f *fakeDoctorRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.docs, id)
	return nil
}

const adminID = "admin-1"

func newTestService() (*Service, *fakeIdentity, *fakeUserRepo, *fakeDoctorRepo) {
	ident := newFakeIdentity()
	users := newFakeUserRepo()
	doctors := newFakeDoctorRepo()
	users.docs[adminID] = &model.User{ID: adminID, Role: model.RoleAdmin}
	return NewService(ident, users, doctors), ident, users, doctors
}

func validDoctorInput() CreateDoctorInput {
	return CreateDoctorInput{
		Email:          "doc@example.com",
		Password:       "secret1",
		Name:           "Jane Roe",
		Specialization: "cardiology",
	}
}

func validUserInput() CreateUserInput {
	return CreateUserInput{
		Email:    "staff@example.com",
		Password: "secret1",
		FullName: "Sam Park",
		Role:     model.RoleStaff,
	}
}

func TestAllOperationsRequireSession(t *testing.T) {
	svc, ident, users, doctors := newTestService()
	ctx := context.Background()

	ops := map[string]func() error{
		"createDoctor": func() error {
			_, err := svc.CreateDoctor(ctx, "", validDoctorInput())
			return err
		},
		"updateDoctorEmail": func() error {
			return svc.UpdateDoctorEmail(ctx, "", "doc-1", "new@example.com")
		},
		"deleteDoctor": func() error {
			return svc.DeleteDoctor(ctx, "", "doc-1")
		},
		"resetDoctorPassword": func() error {
			return svc.ResetDoctorPassword(ctx, "", "doc-1", "secret1")
		},
		"createUser": func() error {
			_, err := svc.CreateUser(ctx, "", validUserInput())
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			assert.Equal(t, apperror.CodeUnauthenticated, apperror.CodeOf(err))
		})
	}

	assert.Empty(t, ident.created)
	assert.Len(t, users.docs, 1)
	assert.Empty(t, doctors.docs)
}

func TestAllOperationsRequireAdmin(t *testing.T) {
	svc, ident, users, doctors := newTestService()
	ctx := context.Background()

	users.docs["student-1"] = &model.User{ID: "student-1", Role: model.RoleStudent}

	callers := []string{"student-1", "ghost"}
	for _, caller := range callers {
		t.Run(caller, func(t *testing.T) {
			_, err := svc.CreateDoctor(ctx, caller, validDoctorInput())
			assert.Equal(t, apperror.CodePermissionDenied, apperror.CodeOf(err))

			err = svc.UpdateDoctorEmail(ctx, caller, "doc-1", "new@example.com")
			assert.Equal(t, apperror.CodePermissionDenied, apperror.CodeOf(err))

			err = svc.DeleteDoctor(ctx, caller, "doc-1")
			assert.Equal(t, apperror.CodePermissionDenied, apperror.CodeOf(err))

			err = svc.ResetDoctorPassword(ctx, caller, "doc-1", "secret1")
			assert.Equal(t, apperror.CodePermissionDenied, apperror.CodeOf(err))

			_, err = svc.CreateUser(ctx, caller, validUserInput())
			assert.Equal(t, apperror.CodePermissionDenied, apperror.CodeOf(err))
		})
	}

	assert.Empty(t, ident.created)
	assert.Empty(t, doctors.docs)
}

func TestCreateDoctorMissingFields(t *testing.T) {
	svc, ident, _, _ := newTestService()

	in := validDoctorInput()
	in.Email = ""
	in.Specialization = ""

	_, err := svc.CreateDoctor(context.Background(), adminID, in)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidArgument, apperror.CodeOf(err))
	assert.Equal(t, "Missing required fields: email, specialization", apperror.MessageOf(err))
	assert.Empty(t, ident.created)
}

func TestCreateDoctorPasswordBoundary(t *testing.T) {
	svc, ident, _, _ := newTestService()
	ctx := context.Background()

	in := validDoctorInput()
	in.Password = "12345"
	_, err := svc.CreateDoctor(ctx, adminID, in)
	assert.Equal(t, apperror.CodeInvalidArgument, apperror.CodeOf(err))
	assert.Empty(t, ident.created)

	in.Password = "123456"
	res, err := svc.CreateDoctor(ctx, adminID, in)
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
	assert.NotEmpty(t, res.DoctorID)
}

func TestCreateDoctorDefaults(t *testing.T) {
	svc, ident, users, doctors := newTestService()

	res, err := svc.CreateDoctor(context.Background(), adminID, validDoctorInput())
	require.NoError(t, err)

	require.Len(t, ident.created, 1)
	assert.Equal(t, "Dr. Jane Roe", ident.created[0].DisplayName)
	assert.False(t, ident.created[0].EmailVerified)

	user := users.docs[res.UserID]
	require.NotNil(t, user)
	assert.Equal(t, model.RoleDoctor, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "en", user.Language)
	require.NotNil(t, user.NotificationSettings)
	assert.True(t, user.NotificationSettings.Email)
	assert.True(t, user.NotificationSettings.Push)
	assert.False(t, user.NotificationSettings.SMS)

	doctor := doctors.docs[res.DoctorID]
	require.NotNil(t, doctor)
	assert.Equal(t, model.AccountRef(res.UserID), doctor.UserID)
	assert.Equal(t, "generalMedicine", doctor.Department)
	assert.Equal(t, "", doctor.Bio)
	assert.Equal(t, 0, doctor.ExperienceYears)
	assert.Equal(t, float64(0), doctor.ConsultationFee)
	assert.NotNil(t, doctor.Qualifications)
	assert.Empty(t, doctor.Qualifications)
	assert.True(t, doctor.IsAvailable)
	assert.True(t, doctor.IsActive)

	require.Len(t, doctor.WeeklySchedule, 7)
	for _, day := range model.Weekdays {
		slots, ok := doctor.WeeklySchedule[day]
		require.True(t, ok, "missing weekday %s", day)
		assert.Empty(t, slots)
	}
}

func TestCreateDoctorKeepsSuppliedSchedule(t *testing.T) {
	svc, _, _, doctors := newTestService()

	in := validDoctorInput()
	in.WeeklySchedule = model.WeeklySchedule{
		"monday": {{Start: "09:00", End: "09:30"}},
	}

	res, err := svc.CreateDoctor(context.Background(), adminID, in)
	require.NoError(t, err)

	doctor := doctors.docs[res.DoctorID]
	require.Len(t, doctor.WeeklySchedule, 1)
	assert.Len(t, doctor.WeeklySchedule["monday"], 1)
}

func TestCreateDoctorIdentityErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code apperror.Code
	}{
		{"duplicate email", identity.ErrEmailExists, apperror.CodeAlreadyExists},
		{"invalid email", identity.ErrInvalidEmail, apperror.CodeInvalidArgument},
		{"weak password", identity.ErrWeakPassword, apperror.CodeInvalidArgument},
		{"other", errors.New("boom"), apperror.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, ident, users, doctors := newTestService()
			ident.createErr = tc.err

			_, err := svc.CreateDoctor(context.Background(), adminID, validDoctorInput())
			assert.Equal(t, tc.code, apperror.CodeOf(err))
			assert.Len(t, users.docs, 1)
			assert.Empty(t, doctors.docs)
		})
	}
}

func TestCreateDoctorNoRollbackAfterIdentityCreate(t *testing.T) {
	svc, ident, users, _ := newTestService()
	users.setErr = errors.New("write failed")

	_, err := svc.CreateDoctor(context.Background(), adminID, validDoctorInput())
	assert.Equal(t, apperror.CodeInternal, apperror.CodeOf(err))
	// The identity account stays in place; nothing compensates for it.
	assert.Len(t, ident.created, 1)
	assert.Empty(t, ident.deleted)
}

func TestUpdateDoctorEmailRealAccount(t *testing.T) {
	svc, ident, users, doctors := newTestService()

	users.docs["uid-9"] = &model.User{ID: "uid-9", Role: model.RoleDoctor, Email: "old@example.com"}
	doctors.docs["doc-1"] = &model.Doctor{UserID: "uid-9", Email: "old@example.com"}

	err := svc.UpdateDoctorEmail(context.Background(), adminID, "doc-1", "new@example.com")
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", ident.emails["uid-9"])
	assert.Equal(t, "new@example.com", users.updated["uid-9"])
	assert.Equal(t, "new@example.com", doctors.updated["doc-1"])
}

func TestUpdateDoctorEmailSyntheticSkipsIdentity(t *testing.T) {
	svc, ident, users, doctors := newTestService()

	doctors.docs["doc-1"] = &model.Doctor{UserID: "sample_3", Email: "old@example.com"}

	err := svc.UpdateDoctorEmail(context.Background(), adminID, "doc-1", "new@example.com")
	require.NoError(t, err)

	assert.Empty(t, ident.emails)
	assert.Empty(t, users.updated)
	assert.Equal(t, "new@example.com", doctors.updated["doc-1"])
}

func TestUpdateDoctorEmailNotFound(t *testing.T) {
	svc, _, _, doctors := newTestService()

	err := svc.UpdateDoctorEmail(context.Background(), adminID, "missing", "new@example.com")
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	assert.Empty(t, doctors.updated)
}

func TestUpdateDoctorEmailDownstreamFailureIsInternal(t *testing.T) {
	svc, ident, _, doctors := newTestService()

	doctors.docs["doc-1"] = &model.Doctor{UserID: "uid-9"}
	ident.updateErr = identity.ErrEmailExists

	err := svc.UpdateDoctorEmail(context.Background(), adminID, "doc-1", "dup@example.com")
	// Unlike the create workflows, this one reports a generic internal
	// error for every downstream failure.
	assert.Equal(t, apperror.CodeInternal, apperror.CodeOf(err))
	assert.Equal(t, "Failed to update doctor email.", apperror.MessageOf(err))
}

func TestDeleteDoctorCascades(t *testing.T) {
	svc, ident, users, doctors := newTestService()

	users.docs["uid-9"] = &model.User{ID: "uid-9", Role: model.RoleDoctor}
	doctors.docs["doc-1"] = &model.Doctor{UserID: "uid-9"}

	err := svc.DeleteDoctor(context.Background(), adminID, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"uid-9"}, ident.deleted)
	assert.Equal(t, []string{"uid-9"}, users.deleted)
	assert.Equal(t, []string{"doc-1"}, doctors.deleted)
}

func TestDeleteDoctorSwallowsIdentityFailure(t *testing.T) {
	svc, ident, users, doctors := newTestService()

	users.docs["uid-9"] = &model.User{ID: "uid-9", Role: model.RoleDoctor}
	doctors.docs["doc-1"] = &model.Doctor{UserID: "uid-9"}
	ident.deleteErr = identity.ErrUserNotFound

	err := svc.DeleteDoctor(context.Background(), adminID, "doc-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"uid-9"}, users.deleted)
	assert.Equal(t, []string{"doc-1"}, doctors.deleted)
}

func TestDeleteDoctorSyntheticSkipsIdentityAndUser(t *testing.T) {
	svc, ident, users, doctors := newTestService()

	doctors.docs["doc-1"] = &model.Doctor{UserID: "sample_3"}

	err := svc.DeleteDoctor(context.Background(), adminID, "doc-1")
	require.NoError(t, err)

	assert.Empty(t, ident.deleted)
	assert.Empty(t, users.deleted)
	assert.Equal(t, []string{"doc-1"}, doctors.deleted)
}

func TestDeleteDoctorNotFoundAndIdempotence(t *testing.T) {
	svc, _, users, doctors := newTestService()

	err := svc.DeleteDoctor(context.Background(), adminID, "missing")
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	assert.Empty(t, users.deleted)
	assert.Empty(t, doctors.deleted)

	users.docs["uid-9"] = &model.User{ID: "uid-9", Role: model.RoleDoctor}
	doctors.docs["doc-1"] = &model.Doctor{UserID: "uid-9"}

	require.NoError(t, svc.DeleteDoctor(context.Background(), adminID, "doc-1"))

	// A second delete finds no residual partial state.
	err = svc.DeleteDoctor(context.Background(), adminID, "doc-1")
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestResetDoctorPassword(t *testing.T) {
	svc, ident, _, doctors := newTestService()
	ctx := context.Background()

	doctors.docs["doc-1"] = &model.Doctor{UserID: "uid-9"}

	err := svc.ResetDoctorPassword(ctx, adminID, "doc-1", "newsecret")
	require.NoError(t, err)
	assert.Equal(t, "newsecret", ident.passwords["uid-9"])
}

func TestResetDoctorPasswordValidatesBeforeLookup(t *testing.T) {
	svc, ident, _, doctors := newTestService()

	doctors.docs["doc-1"] = &model.Doctor{UserID: "uid-9"}

	err := svc.ResetDoctorPassword(context.Background(), adminID, "doc-1", "1234")
	assert.Equal(t, apperror.CodeInvalidArgument, apperror.CodeOf(err))
	assert.Empty(t, ident.passwords)
}

func TestResetDoctorPasswordRequiresBackingAccount(t *testing.T) {
	svc, ident, _, doctors := newTestService()
	ctx := context.Background()

	doctors.docs["doc-1"] = &model.Doctor{UserID: "sample_3"}
	doctors.docs["doc-2"] = &model.Doctor{UserID: ""}

	for _, id := range []string{"doc-1", "doc-2"} {
		err := svc.ResetDoctorPassword(ctx, adminID, id, "newsecret")
		assert.Equal(t, apperror.CodeFailedPrecondition, apperror.CodeOf(err))
	}
	assert.Empty(t, ident.passwords)
}

func TestResetDoctorPasswordNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.ResetDoctorPassword(context.Background(), adminID, "missing", "newsecret")
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestCreateUserRejectsDoctorRole(t *testing.T) {
	svc, ident, _, _ := newTestService()

	in := validUserInput()
	in.Role = model.RoleDoctor

	_, err := svc.CreateUser(context.Background(), adminID, in)
	assert.Equal(t, apperror.CodeInvalidArgument, apperror.CodeOf(err))
	assert.Empty(t, ident.created)

	in.Role = "superuser"
	_, err = svc.CreateUser(context.Background(), adminID, in)
	assert.Equal(t, apperror.CodeInvalidArgument, apperror.CodeOf(err))
}

func TestCreateUserStaff(t *testing.T) {
	svc, ident, users, _ := newTestService()

	userID, err := svc.CreateUser(context.Background(), adminID, validUserInput())
	require.NoError(t, err)

	require.Len(t, ident.created, 1)
	assert.Equal(t, "Sam Park", ident.created[0].DisplayName)

	user := users.docs[userID]
	require.NotNil(t, user)
	assert.Equal(t, model.RoleStaff, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "en", user.Language)
	assert.Nil(t, user.NotificationSettings)
}

func TestCreateUserMissingFields(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateUser(context.Background(), adminID, CreateUserInput{Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Missing required fields: email, fullName, role", apperror.MessageOf(err))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, ident, _, _ := newTestService()
	ident.createErr = identity.ErrEmailExists

	_, err := svc.CreateUser(context.Background(), adminID, validUserInput())
	assert.Equal(t, apperror.CodeAlreadyExists, apperror.CodeOf(err))
}
