package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/follow/:username.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	if err := s.followService.Follow(c.UserContext(), c.Params("username"), s.visitor(c).ID); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "following",
	})
}

// UnfollowUser handles DELETE /api/follow/:username.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.UserContext(), c.Params("username"), s.visitor(c).ID); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "unfollowed",
	})
}
