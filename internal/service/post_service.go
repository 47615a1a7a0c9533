package service

import (
	"context"
	"strconv"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

// PostService provides post creation, ownership-checked mutation, and the
// query surface. Every multi-post read passes through the same decorate
// step so author enrichment and the ownership flag exist in one place.
type PostService struct {
	postRepo repository.PostRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// decorate fills the computed fields on a post: the author's public
// projection (avatar derived, never read from the store) and whether the
// visitor owns it.
func decorate(post *models.Post, visitorID uint) *models.Post {
	post.Author = post.User.Profile()
	post.IsOwner = post.UserID == visitorID
	return post
}

func decorateAll(posts []*models.Post, visitorID uint) []*models.Post {
	for _, p := range posts {
		decorate(p, visitorID)
	}
	return posts
}

// parsePostID treats a malformed id the same as an absent one.
func parsePostID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewNotFoundError("Post", raw)
	}
	return uint(id), nil
}

// Create sanitizes both fields, reports both violations independently, and
// stamps the author. The creation date is set by the store and never
// changes.
func (s *PostService) Create(ctx context.Context, title, body string, authorID uint) (*models.Post, error) {
	in := validation.SanitizePost(title, body)
	if errs := validation.ValidatePost(in); len(errs) > 0 {
		return nil, models.NewValidationErrors(errs)
	}

	post := &models.Post{
		Title:  in.Title,
		Body:   in.Body,
		UserID: authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return decorate(created, authorID), nil
}

// GetPost loads a single post with the author joined and the ownership
// flag computed for the visitor.
func (s *PostService) GetPost(ctx context.Context, rawID string, visitorID uint) (*models.Post, error) {
	id, err := parsePostID(rawID)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return decorate(post, visitorID), nil
}

// ListByAuthor returns the author's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID, visitorID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return decorateAll(posts, visitorID), nil
}

// ListByAuthors returns posts by any of the given authors, newest first.
func (s *PostService) ListByAuthors(ctx context.Context, authorIDs []uint, visitorID uint) ([]*models.Post, error) {
	posts, err := s.postRepo.ListByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	return decorateAll(posts, visitorID), nil
}

// Search returns posts matching the term over title+body, ranked by
// relevance. An empty term fails fast without touching the store.
func (s *PostService) Search(ctx context.Context, term string, visitorID uint) ([]*models.Post, error) {
	if strings.TrimSpace(term) == "" {
		return nil, models.NewValidationError("You must provide a search term.")
	}
	posts, err := s.postRepo.Search(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, err
	}
	return decorateAll(posts, visitorID), nil
}

// CountByAuthor returns the number of posts the author has published.
func (s *PostService) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.postRepo.CountByAuthor(ctx, authorID)
}

// Update re-sanitizes and re-validates title and body and writes them in
// place. Only the owner may update; author and creation date never change.
func (s *PostService) Update(ctx context.Context, rawID, title, body string, requesterID uint) (*models.Post, error) {
	id, err := parsePostID(rawID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != requesterID {
		return nil, models.NewForbiddenError("You do not have permission to perform that action.")
	}

	in := validation.SanitizePost(title, body)
	if errs := validation.ValidatePost(in); len(errs) > 0 {
		return nil, models.NewValidationErrors(errs)
	}

	if err := s.postRepo.UpdateContent(ctx, id, in.Title, in.Body); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Body = in.Body
	return decorate(post, requesterID), nil
}

// Delete removes the post. Only the owner may delete.
func (s *PostService) Delete(ctx context.Context, rawID string, requesterID uint) error {
	id, err := parsePostID(rawID)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return models.NewForbiddenError("You do not have permission to perform that action.")
	}

	return s.postRepo.Delete(ctx, id)
}
