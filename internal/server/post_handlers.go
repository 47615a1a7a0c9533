package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.UserContext(), req.Title, req.Body, s.visitor(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"post": post,
	})
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"), s.visitor(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"post": post,
	})
}

// UpdatePost handles PUT /api/posts/:id.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.UserContext(), c.Params("id"), req.Title, req.Body, s.visitor(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"post": post,
	})
}

// DeletePost handles DELETE /api/posts/:id.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.Delete(c.UserContext(), c.Params("id"), s.visitor(c).ID); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "deleted",
	})
}

// SearchPosts handles POST /api/posts/search.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	var req struct {
		SearchTerm string `json:"searchTerm"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	posts, err := s.postService.Search(c.UserContext(), req.SearchTerm, s.visitor(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": posts,
	})
}

// HomeFeed handles GET /api/home, the posts of every followed author.
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	posts, err := s.feedService.GetFeed(c.UserContext(), s.visitor(c).ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts": posts,
	})
}
