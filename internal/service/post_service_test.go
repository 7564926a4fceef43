package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Sudip2708/poustovnik-english/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreateStampsLanguage(t *testing.T) {
	var created *models.Post
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 1
		created = p
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) { return created, nil }
	svc := NewPostService(repo, noopUserRepo())

	post, err := svc.Create(context.Background(), CreatePostInput{
		UserID:   1,
		Title:    "Hello",
		Content:  "First post",
		Language: "cs",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs", post.Language)
	assert.Equal(t, uint(1), post.UserID)
}

func TestPostService_CreateValidation(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{name: "empty title", in: CreatePostInput{UserID: 1, Title: "  ", Content: "body"}},
		{name: "title too long", in: CreatePostInput{UserID: 1, Title: strings.Repeat("x", 101), Content: "body"}},
		{name: "empty content", in: CreatePostInput{UserID: 1, Title: "ok", Content: "\n\t "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			require.Error(t, err)

			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestPostService_UpdateRequiresOwnership(t *testing.T) {
	updated := false
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, Title: "Original", Content: "body", UserID: 1}, nil
	}
	repo.updateFn = func(_ context.Context, _ *models.Post) error {
		updated = true
		return nil
	}
	svc := NewPostService(repo, noopUserRepo())

	_, err := svc.Update(context.Background(), UpdatePostInput{
		UserID:  2,
		PostID:  10,
		Title:   "Hijacked",
		Content: "nope",
	})
	require.Error(t, err)
	assert.False(t, updated)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	post, err := svc.Update(context.Background(), UpdatePostInput{
		UserID:  1,
		PostID:  10,
		Title:   "Revised",
		Content: "better",
	})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "Revised", post.Title)
}

func TestPostService_DeleteRequiresOwnership(t *testing.T) {
	deleted := false
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 1}, nil
	}
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	svc := NewPostService(repo, noopUserRepo())

	err := svc.Delete(context.Background(), DeletePostInput{UserID: 2, PostID: 10})
	require.Error(t, err)
	assert.False(t, deleted)

	require.NoError(t, svc.Delete(context.Background(), DeletePostInput{UserID: 1, PostID: 10}))
	assert.True(t, deleted)
}

func TestPostService_ListByAuthorPage(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		if username != "alice" {
			return nil, models.NewNotFoundError("User", username)
		}
		return &models.User{ID: 3, Username: "alice"}, nil
	}
	postRepo := noopPostRepo()
	postRepo.listByAuthorPageFn = func(_ context.Context, userID uint, page, perPage int) (*models.PostPage, error) {
		assert.Equal(t, uint(3), userID)
		return &models.PostPage{Page: page, PerPage: perPage, Total: 1}, nil
	}
	svc := NewPostService(postRepo, userRepo)

	user, page, err := svc.ListByAuthorPage(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(1), page.Total)

	_, _, err = svc.ListByAuthorPage(context.Background(), "ghost", 1)
	require.Error(t, err)
}
