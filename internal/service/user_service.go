// Package service implements the application's business logic.
package service

import (
	"context"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService provides registration, authentication and public identity
// lookup.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register validates the raw input, accumulating every violation, and
// creates the account. Uniqueness checks run only when format validation
// passed cleanly. The returned user carries the derived avatar and no
// plaintext password.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	in := validation.NormalizeRegistration(username, email, password)
	errs := validation.ValidateRegistration(in)

	if len(errs) == 0 {
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs = append(errs, "That username is already taken.")
		}

		existing, err = s.userRepo.GetByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			errs = append(errs, "That email is already being used.")
		}
	}

	if len(errs) > 0 {
		return nil, models.NewValidationErrors(errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.Password = ""
	user.LoadAvatar()
	return user, nil
}

// Login authenticates by username and password. Both failure modes return
// the same generic error so the response never reveals which field was
// wrong.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))

	user, err := s.userRepo.GetByUsername(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewAuthError()
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewAuthError()
	}

	user.Password = ""
	user.LoadAvatar()
	return user, nil
}

// FindByUsername returns the public identity projection for a username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (models.Profile, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))

	user, err := s.userRepo.GetByUsername(ctx, normalized)
	if err != nil {
		return models.Profile{}, err
	}
	if user == nil {
		return models.Profile{}, models.NewNotFoundError("User", normalized)
	}
	return user.Profile(), nil
}
