package service

import (
	"context"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
)

// FollowService provides the directed follow graph between identities.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// resolveTarget maps a username to the account being followed. A missing
// target is the only reportable error: the remaining checks need the
// resolved id.
func (s *FollowService) resolveTarget(ctx context.Context, targetUsername string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(targetUsername))
	target, err := s.userRepo.GetByUsername(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewValidationError("You cannot follow a user that does not exist.")
	}
	return target, nil
}

// Follow creates the edge actor → target. All applicable violations are
// accumulated before failing; the edge is inserted only when the list is
// empty.
func (s *FollowService) Follow(ctx context.Context, targetUsername string, actorID uint) error {
	target, err := s.resolveTarget(ctx, targetUsername)
	if err != nil {
		return err
	}

	var errs []string

	exists, err := s.followRepo.Exists(ctx, target.ID, actorID)
	if err != nil {
		return err
	}
	if exists {
		errs = append(errs, "You are already following this user.")
	}
	if target.ID == actorID {
		errs = append(errs, "You cannot follow yourself.")
	}
	if len(errs) > 0 {
		return models.NewValidationErrors(errs)
	}

	return s.followRepo.Create(ctx, &models.Follow{
		FollowedID: target.ID,
		AuthorID:   actorID,
	})
}

// Unfollow removes the edge actor → target; the edge must exist.
func (s *FollowService) Unfollow(ctx context.Context, targetUsername string, actorID uint) error {
	target, err := s.resolveTarget(ctx, targetUsername)
	if err != nil {
		return err
	}

	var errs []string

	exists, err := s.followRepo.Exists(ctx, target.ID, actorID)
	if err != nil {
		return err
	}
	if !exists {
		errs = append(errs, "You cannot stop following someone you do not already follow.")
	}
	if target.ID == actorID {
		errs = append(errs, "You cannot follow yourself.")
	}
	if len(errs) > 0 {
		return models.NewValidationErrors(errs)
	}

	return s.followRepo.Delete(ctx, target.ID, actorID)
}

// IsFollowing reports whether the visitor follows the account. The
// anonymous visitor never follows anyone.
func (s *FollowService) IsFollowing(ctx context.Context, followedID, visitorID uint) (bool, error) {
	if visitorID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, followedID, visitorID)
}

// GetFollowersByID returns the public projections of the accounts
// following userID.
func (s *FollowService) GetFollowersByID(ctx context.Context, userID uint) ([]models.Profile, error) {
	users, err := s.followRepo.FollowersOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profiles(users), nil
}

// GetFollowingByID returns the public projections of the accounts userID
// follows.
func (s *FollowService) GetFollowingByID(ctx context.Context, userID uint) ([]models.Profile, error) {
	users, err := s.followRepo.FollowingOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profiles(users), nil
}

// FollowingIDs returns the ids of everyone userID follows.
func (s *FollowService) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followRepo.FollowingIDs(ctx, userID)
}

// CountFollowersByID returns the number of followers.
func (s *FollowService) CountFollowersByID(ctx context.Context, userID uint) (int64, error) {
	return s.followRepo.CountFollowers(ctx, userID)
}

// CountFollowingByID returns the number of accounts followed.
func (s *FollowService) CountFollowingByID(ctx context.Context, userID uint) (int64, error) {
	return s.followRepo.CountFollowing(ctx, userID)
}

func profiles(users []models.User) []models.Profile {
	out := make([]models.Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out
}
