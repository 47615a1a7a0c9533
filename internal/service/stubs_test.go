package service

import (
	"context"

	"quill/internal/models"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func emptyUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	listByAuthorFn  func(context.Context, uint) ([]*models.Post, error)
	listByAuthorsFn func(context.Context, []uint) ([]*models.Post, error)
	searchFn        func(context.Context, string) ([]*models.Post, error)
	countByAuthorFn func(context.Context, uint) (int64, error)
	updateContentFn func(context.Context, uint, string, string) error
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint) ([]*models.Post, error) {
	return s.listByAuthorsFn(ctx, authorIDs)
}
func (s *postRepoStub) Search(ctx context.Context, term string) ([]*models.Post, error) {
	return s.searchFn(ctx, term)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) UpdateContent(ctx context.Context, id uint, title, body string) error {
	return s.updateContentFn(ctx, id, title, body)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listByAuthorFn:  func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		listByAuthorsFn: func(_ context.Context, _ []uint) ([]*models.Post, error) { return nil, nil },
		searchFn:        func(_ context.Context, _ string) ([]*models.Post, error) { return nil, nil },
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		updateContentFn: func(_ context.Context, _ uint, _, _ string) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn         func(context.Context, *models.Follow) error
	deleteFn         func(context.Context, uint, uint) error
	existsFn         func(context.Context, uint, uint) (bool, error)
	followersOfFn    func(context.Context, uint) ([]models.User, error)
	followingOfFn    func(context.Context, uint) ([]models.User, error)
	followingIDsFn   func(context.Context, uint) ([]uint, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Delete(ctx context.Context, followedID, authorID uint) error {
	return s.deleteFn(ctx, followedID, authorID)
}
func (s *followRepoStub) Exists(ctx context.Context, followedID, authorID uint) (bool, error) {
	return s.existsFn(ctx, followedID, authorID)
}
func (s *followRepoStub) FollowersOf(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersOfFn(ctx, userID)
}
func (s *followRepoStub) FollowingOf(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingOfFn(ctx, userID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, authorID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, authorID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func emptyFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(_ context.Context, _ *models.Follow) error { return nil },
		deleteFn:         func(_ context.Context, _, _ uint) error { return nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followersOfFn:    func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		followingOfFn:    func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		followingIDsFn:   func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}
