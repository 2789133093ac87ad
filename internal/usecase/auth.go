package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
	"github.com/polkiloo/weddingmart/internal/domain/repository"
	pkgAuth "github.com/polkiloo/weddingmart/internal/pkg/auth"
)

const minPasswordLength = 6

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(in model.Registration) error {
	if strings.TrimSpace(in.Name) == "" {
		return domainErrors.NewValidationError("name", "is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return domainErrors.NewValidationError("email", "is not a valid address")
	}
	if len(in.Password) < minPasswordLength {
		return domainErrors.NewValidationError("password", "must be at least 6 characters")
	}
	return nil
}

// Register creates a customer account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, in model.Registration) (*model.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateRegistration(in); err != nil {
		return nil, "", err
	}

	usr, err := u.create(ctx, in, model.RoleUser)
	if err != nil {
		return nil, "", err
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

func (u *AuthUseCase) create(ctx context.Context, in model.Registration, role model.Role) (*model.User, error) {
	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	return u.users.Create(ctx, &model.User{
		ID:           newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         role,
	})
}

func (u *AuthUseCase) issue(usr *model.User) (string, error) {
	return u.tokens.IssueToken(model.Principal{UserID: usr.ID, Role: usr.Role})
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}
	return usr, token, nil
}

// ParseToken extracts the caller from provided token.
func (u *AuthUseCase) ParseToken(token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// EnsureAdmin creates the administrator account when it does not exist yet.
// It reports whether an account was created.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, in model.Registration) (*model.User, bool, error) {
	in.Email = normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" {
		in.Name = "Administrator"
	}
	if err := validateRegistration(in); err != nil {
		return nil, false, err
	}

	existing, err := u.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, false, err
	}

	usr, err := u.create(ctx, in, model.RoleAdmin)
	if errors.Is(err, domainErrors.ErrAlreadyExists) {
		// Another replica won the race.
		existing, err := u.users.GetByEmail(ctx, in.Email)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return usr, true, nil
}
