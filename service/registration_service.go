package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"schematics-backend/apperrors"
	"schematics-backend/models"
	"schematics-backend/repository"
	"schematics-backend/validation"
)

// RegistrationService validates registration forms and creates users
type RegistrationService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	now        func() time.Time
	logger     *zap.Logger
}

// RegistrationServiceOption is a functional option for RegistrationService
type RegistrationServiceOption func(*RegistrationService)

// RegistrationWithUserRepository sets the user repository
func RegistrationWithUserRepository(repo repository.UserRepository) RegistrationServiceOption {
	return func(s *RegistrationService) {
		s.userRepo = repo
	}
}

// RegistrationWithBcryptCost sets the password hashing cost
func RegistrationWithBcryptCost(cost int) RegistrationServiceOption {
	return func(s *RegistrationService) {
		s.bcryptCost = cost
	}
}

// RegistrationWithClock overrides the time source for createdAt
func RegistrationWithClock(now func() time.Time) RegistrationServiceOption {
	return func(s *RegistrationService) {
		s.now = now
	}
}

// RegistrationWithLogger sets the logger
func RegistrationWithLogger(logger *zap.Logger) RegistrationServiceOption {
	return func(s *RegistrationService) {
		s.logger = logger
	}
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(opts ...RegistrationServiceOption) *RegistrationService {
	s := &RegistrationService{
		bcryptCost: bcrypt.DefaultCost,
		now:        defaultNow,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.userRepo == nil {
		s.userRepo = repository.NewMemoryUserRepository()
	}
	return s
}

// RegisterRequest represents a registration form submission
type RegisterRequest struct {
	Input validation.RegistrationInput
}

// RegisterResult represents the created user
type RegisterResult struct {
	User *models.User
}

// Register sanitizes and validates the form, rejects a registered email,
// hashes the password and stores the user.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	in := req.Input.Sanitized()

	if errs := validation.ValidateRegistration(in); len(errs) > 0 {
		return nil, apperrors.Validation("Validation failed", errs)
	}

	email := strings.ToLower(in.Email)
	_, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, emailTaken()
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, s.internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, s.internal(errors.Wrap(err, "failed to hash password"))
	}

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, emailTaken()
		}
		return nil, s.internal(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return &RegisterResult{User: user}, nil
}

// ValidateFieldRequest represents a single-field inline check
type ValidateFieldRequest struct {
	Field string
	Value string
}

// ValidateFieldResult carries the message for an invalid value
type ValidateFieldResult struct {
	Valid bool
	Error string
}

// ValidateField checks one form field. Unknown fields are InvalidInput.
func (s *RegistrationService) ValidateField(ctx context.Context, req ValidateFieldRequest) (*ValidateFieldResult, error) {
	msg, err := validation.ValidateRegistrationField(req.Field, req.Value)
	if err != nil {
		return nil, err
	}
	return &ValidateFieldResult{Valid: msg == "", Error: msg}, nil
}

func (s *RegistrationService) internal(err error) error {
	s.logger.Error("registration failure", zap.Error(err))
	return apperrors.Internal("registration failure", err)
}

func emailTaken() error {
	return apperrors.Conflict("An account with this email already exists").
		WithDetail(validation.FieldEmail, "An account with this email already exists")
}
