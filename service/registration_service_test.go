package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"schematics-backend/apperrors"
	"schematics-backend/repository"
	"schematics-backend/validation"
)

func validRegistration() validation.RegistrationInput {
	return validation.RegistrationInput{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "John.Doe@Example.com",
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
	}
}

func newTestRegistrationService(t *testing.T) (*RegistrationService, *repository.MemoryUserRepository) {
	t.Helper()
	repo := repository.NewMemoryUserRepository()
	clock := newFakeClock()
	return NewRegistrationService(
		RegistrationWithUserRepository(repo),
		RegistrationWithBcryptCost(bcrypt.MinCost),
		RegistrationWithClock(clock.Now),
	), repo
}

func TestRegister_CreatesUser(t *testing.T) {
	s, repo := newTestRegistrationService(t)
	ctx := context.Background()

	in := validRegistration()
	in.FirstName = "  John\x00 "
	res, err := s.Register(ctx, RegisterRequest{Input: in})
	require.NoError(t, err)

	user := res.User
	assert.Equal(t, "John", user.FirstName)
	assert.Equal(t, "Doe", user.LastName)
	assert.Equal(t, "john.doe@example.com", user.Email)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("SecurePass123!")))

	stored, err := repo.GetByEmail(ctx, "john.doe@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegister_ValidationErrors(t *testing.T) {
	s, _ := newTestRegistrationService(t)

	in := validRegistration()
	in.Email = "invalid-email"
	in.ConfirmPassword = "DifferentPass123!"

	_, err := s.Register(context.Background(), RegisterRequest{Input: in})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	assert.Equal(t, "Validation failed", appErr.Message)
	assert.Contains(t, appErr.Details, validation.FieldEmail)
	assert.Equal(t, "Passwords do not match", appErr.Details[validation.FieldConfirmPassword])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, _ := newTestRegistrationService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterRequest{Input: validRegistration()})
	require.NoError(t, err)

	again := validRegistration()
	again.Email = "john.doe@EXAMPLE.com"
	_, err = s.Register(ctx, RegisterRequest{Input: again})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
}

func TestValidateField(t *testing.T) {
	s, _ := newTestRegistrationService(t)
	ctx := context.Background()

	res, err := s.ValidateField(ctx, ValidateFieldRequest{Field: "email", Value: "john@example.com"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Error)

	res, err = s.ValidateField(ctx, ValidateFieldRequest{Field: "password", Value: "short"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Password must be at least 8 characters long", res.Error)

	_, err = s.ValidateField(ctx, ValidateFieldRequest{Field: "age", Value: "30"})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
}
