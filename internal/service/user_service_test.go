package service

import (
	"context"
	"errors"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_Success(t *testing.T) {
	repo := emptyUserRepo()
	var created *models.User
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 1
		created = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), "  Alice  ", "ALICE@Example.COM", "sufficiently-long")
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.Password, "plaintext password must not leak back")
	assert.NotEmpty(t, user.Avatar)
	assert.Contains(t, user.Avatar, "https://gravatar.com/avatar/")

	require.NotNil(t, created)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("sufficiently-long")))
}

func TestRegister_AccumulatesAllViolations(t *testing.T) {
	persisted := false
	repo := emptyUserRepo()
	repo.createFn = func(_ context.Context, _ *models.User) error {
		persisted = true
		return nil
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "a!", "not-an-email", "short")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, []string{
		"Username can only contain letters and numbers.",
		"Username must be at least 3 characters.",
		"You must provide a valid email address.",
		"Password must be at least 8 characters.",
	}, appErr.Messages)
	assert.False(t, persisted, "invalid registration must not be persisted")
}

func TestRegister_UniquenessSkippedWhenFormatInvalid(t *testing.T) {
	lookups := 0
	repo := emptyUserRepo()
	repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		lookups++
		return &models.User{ID: 1}, nil
	}
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		lookups++
		return &models.User{ID: 1}, nil
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "x", "bad", "short")
	require.Error(t, err)
	assert.Zero(t, lookups, "uniqueness checks run only when format validation passes")
}

func TestRegister_DuplicateUsernameAndEmail(t *testing.T) {
	persisted := false
	repo := emptyUserRepo()
	repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 1, Username: "alice"}, nil
	}
	repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
		return &models.User{ID: 1, Email: "alice@example.com"}, nil
	}
	repo.createFn = func(_ context.Context, _ *models.User) error {
		persisted = true
		return nil
	}
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "sufficiently-long")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{
		"That username is already taken.",
		"That email is already being used.",
	}, appErr.Messages)
	assert.False(t, persisted)
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := emptyUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		assert.Equal(t, "alice", username)
		return &models.User{ID: 1, Username: "alice", Email: "alice@example.com", Password: string(hash)}, nil
	}
	svc := NewUserService(repo)

	user, err := svc.Login(context.Background(), "  ALICE ", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.Avatar)
}

func TestLogin_FailureModesAreIndistinguishable(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := emptyUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "alice" {
			return &models.User{ID: 1, Username: "alice", Password: string(hash)}, nil
		}
		return nil, nil
	}
	svc := NewUserService(repo)

	_, unknownErr := svc.Login(context.Background(), "nobody", "correct-password")
	require.Error(t, unknownErr)

	_, wrongErr := svc.Login(context.Background(), "alice", "wrong-password")
	require.Error(t, wrongErr)

	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, "Invalid username / password.", wrongErr.Error())
}

func TestFindByUsername(t *testing.T) {
	repo := emptyUserRepo()
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username == "alice" {
			return &models.User{ID: 7, Username: "alice", Email: "alice@example.com"}, nil
		}
		return nil, nil
	}
	svc := NewUserService(repo)

	profile, err := svc.FindByUsername(context.Background(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, uint(7), profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.NotEmpty(t, profile.Avatar)

	_, err = svc.FindByUsername(context.Background(), "nobody")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
