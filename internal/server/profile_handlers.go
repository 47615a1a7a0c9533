package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) profileByUsername(c *fiber.Ctx) (models.Profile, error) {
	return s.userService.FindByUsername(c.UserContext(), c.Params("username"))
}

// GetProfile handles GET /api/profile/:username. The counts and the
// follow state are aggregated concurrently, one screen needs them all.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.profileByUsername(c)
	if err != nil {
		return respondError(c, err)
	}

	data, err := s.feedService.SharedProfileData(c.UserContext(), profile.ID, s.visitor(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"profile": profile,
		"data":    data,
	})
}

// GetProfilePosts handles GET /api/profile/:username/posts.
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	profile, err := s.profileByUsername(c)
	if err != nil {
		return respondError(c, err)
	}

	posts, err := s.postService.ListByAuthor(c.UserContext(), profile.ID, s.visitor(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": posts,
	})
}

// GetProfileFollowers handles GET /api/profile/:username/followers.
func (s *Server) GetProfileFollowers(c *fiber.Ctx) error {
	profile, err := s.profileByUsername(c)
	if err != nil {
		return respondError(c, err)
	}

	followers, err := s.followService.GetFollowersByID(c.UserContext(), profile.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"followers": followers,
	})
}

// GetProfileFollowing handles GET /api/profile/:username/following.
func (s *Server) GetProfileFollowing(c *fiber.Ctx) error {
	profile, err := s.profileByUsername(c)
	if err != nil {
		return respondError(c, err)
	}

	following, err := s.followService.GetFollowingByID(c.UserContext(), profile.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"following": following,
	})
}
