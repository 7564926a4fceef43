package service

import (
	"context"
	"strings"

	"github.com/Sudip2708/poustovnik-english/internal/models"
	"github.com/Sudip2708/poustovnik-english/internal/repository"
)

const maxPostTitleLen = 100

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string

	// Language records the locale the post was written under.
	Language string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

func validatePostFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxPostTitleLen {
		return models.NewValidationError("Title too long (max 100 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	return nil
}

func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		Language: in.Language,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPage(ctx context.Context, page int) (*models.PostPage, error) {
	return s.postRepo.ListPage(ctx, page, repository.DefaultPageSize)
}

// ListByAuthorPage returns the author's posts newest first. The author is
// looked up by username so the page can carry the resolved user alongside
// the posts.
func (s *PostService) ListByAuthorPage(ctx context.Context, username string, page int) (*models.User, *models.PostPage, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	pageResult, err := s.postRepo.ListByAuthorPage(ctx, user.ID, page, repository.DefaultPageSize)
	if err != nil {
		return nil, nil, err
	}
	return user, pageResult, nil
}

// Update rewrites a post's title and content. Only the author may update;
// anyone else gets a forbidden error regardless of what they submitted.
func (s *PostService) Update(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}
