package service

import (
	"context"

	"quill/internal/models"

	"golang.org/x/sync/errgroup"
)

// FeedService composes the follow graph and the post query surface into
// the per-visitor feed and the shared profile statistics.
type FeedService struct {
	followService *FollowService
	postService   *PostService
}

// NewFeedService returns a new FeedService.
func NewFeedService(followService *FollowService, postService *PostService) *FeedService {
	return &FeedService{followService: followService, postService: postService}
}

// GetFeed returns every post authored by someone the visitor follows,
// newest first. Following nobody yields an empty feed.
func (s *FeedService) GetFeed(ctx context.Context, visitorID uint) ([]*models.Post, error) {
	ids, err := s.followService.FollowingIDs(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}
	return s.postService.ListByAuthors(ctx, ids, visitorID)
}

// ProfileData is the aggregate every profile screen needs before
// rendering.
type ProfileData struct {
	IsOwner        bool  `json:"is_owner"`
	IsFollowing    bool  `json:"is_following"`
	PostCount      int64 `json:"post_count"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

// SharedProfileData issues the isFollowing check and the three counts as
// concurrent reads and joins them; all values are available together or
// the whole aggregate fails.
func (s *FeedService) SharedProfileData(ctx context.Context, profileID, visitorID uint) (*ProfileData, error) {
	data := &ProfileData{
		IsOwner: profileID == visitorID,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		following, err := s.followService.IsFollowing(gctx, profileID, visitorID)
		if err != nil {
			return err
		}
		data.IsFollowing = following
		return nil
	})
	g.Go(func() error {
		count, err := s.postService.CountByAuthor(gctx, profileID)
		if err != nil {
			return err
		}
		data.PostCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.followService.CountFollowersByID(gctx, profileID)
		if err != nil {
			return err
		}
		data.FollowerCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.followService.CountFollowingByID(gctx, profileID)
		if err != nil {
			return err
		}
		data.FollowingCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
