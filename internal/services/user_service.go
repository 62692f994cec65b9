package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
)

// MinPasswordLength is the shortest password accepted for an account
const MinPasswordLength = 5

// ProfileUpdate holds the optional fields of a profile update; nil fields are left unchanged
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// UserService manages accounts and credentials
type UserService interface {
	// CreateUser registers a regular user
	CreateUser(ctx context.Context, email, password, name string) (*models.User, error)
	// CreateSuperuser registers a user with staff and superuser flags set
	CreateSuperuser(ctx context.Context, email, password string) (*models.User, error)
	// Authenticate checks an email and password pair
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	// GetUserByID retrieves a user by its ID
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	// UpdateProfile applies a partial update to user
	UpdateProfile(ctx context.Context, user *models.User, update ProfileUpdate) (*models.User, error)
	// ListUsers returns every user ordered by ID
	ListUsers(ctx context.Context) ([]models.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher

	// dummyHash is compared for unknown emails so both failures cost one hash check
	dummyOnce sync.Once
	dummyHash string
}

// NewUserService creates a new instance of UserService
func NewUserService(users repository.UserRepository, hasher auth.PasswordHasher) UserService {
	return &userService{users: users, hasher: hasher}
}

// NormalizeEmail lower-cases the domain part of an email address
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

func validateEmail(v *ValidationError, email string) {
	if email == "" {
		v.Add("email", msgRequired)
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		v.Add("email", "Enter a valid email address.")
	}
}

func validatePassword(v *ValidationError, password string) {
	if len([]rune(password)) < MinPasswordLength {
		v.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", MinPasswordLength))
	}
}

func (s *userService) create(ctx context.Context, email, password, name string, superuser bool) (*models.User, error) {
	email = NormalizeEmail(email)

	v := &ValidationError{}
	validateEmail(v, email)
	validatePassword(v, password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:       email,
		Name:        strings.TrimSpace(name),
		Password:    hash,
		IsActive:    true,
		IsStaff:     superuser,
		IsSuperuser: superuser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.create(ctx, email, password, name, false)
}

func (s *userService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.create(ctx, email, password, "", true)
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	v := &ValidationError{}
	if strings.TrimSpace(email) == "" {
		v.Add("email", msgRequired)
	}
	if password == "" {
		v.Add("password", msgRequired)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Compare(s.unknownUserHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Compare(user.Password, password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("unknown-user-password")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, user *models.User, update ProfileUpdate) (*models.User, error) {
	updated := *user

	v := &ValidationError{}
	if update.Email != nil {
		updated.Email = NormalizeEmail(*update.Email)
		validateEmail(v, updated.Email)
	}
	if update.Password != nil {
		validatePassword(v, *update.Password)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if update.Name != nil {
		updated.Name = strings.TrimSpace(*update.Name)
	}
	if update.Password != nil {
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.Password = hash
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &updated, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}
