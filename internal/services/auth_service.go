package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"policeapp/internal/domain/entities"
	"policeapp/internal/repository"
)

// AuthService owns user accounts: signup, login, existence checks and
// profile updates. Passwords are stored as bcrypt hashes only.
type AuthService struct {
	users    repository.UserRepository
	tokens   *TokenIssuer
	log      *zap.Logger
	hashCost int
}

func NewAuthService(users repository.UserRepository, tokens *TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// UpdateProfileInput carries the fields to change; nil leaves a field as is.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

// Signup creates the user and returns a token carrying the profile claims.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entities.User, string, error) {
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)

	exists, err := s.Exists(ctx, email, phone)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := entities.NewUser(strings.TrimSpace(in.Name), email, phone, string(hash))
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user, true)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user_signup", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// Login checks the password and returns a short-lived token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Info("login_failed", zap.Int64("user_id", user.ID))
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user, false)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Exists reports whether a user with this email or this phone is registered.
// Empty arguments are not looked up.
func (s *AuthService) Exists(ctx context.Context, email, phone string) (bool, error) {
	if email != "" {
		found, err := s.found(s.users.GetByEmail(ctx, email))
		if err != nil || found {
			return found, err
		}
	}
	if phone != "" {
		return s.found(s.users.GetByPhone(ctx, phone))
	}
	return false, nil
}

// EmailExists reports whether email is registered.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	return s.found(s.users.GetByEmail(ctx, email))
}

func (s *AuthService) found(_ *entities.User, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile applies the non-nil fields of in. Name and email may be changed
// but not cleared.
func (s *AuthService) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*entities.User, error) {
	if blank(in.Name) || blank(in.Email) {
		return nil, ErrEmptyProfileField
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrUserExists
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}

// Authenticate resolves a bearer token to a user ID.
func (s *AuthService) Authenticate(token string) (int64, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
