package service

import (
	"context"

	"github.com/Sudip2708/poustovnik-english/internal/models"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return &models.User{}, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	listPageFn         func(context.Context, int, int) (*models.PostPage, error)
	listByAuthorPageFn func(context.Context, uint, int, int) (*models.PostPage, error)
	updateFn           func(context.Context, *models.Post) error
	deleteFn           func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListPage(ctx context.Context, page, perPage int) (*models.PostPage, error) {
	return s.listPageFn(ctx, page, perPage)
}
func (s *postRepoStub) ListByAuthorPage(ctx context.Context, userID uint, page, perPage int) (*models.PostPage, error) {
	return s.listByAuthorPageFn(ctx, userID, page, perPage)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listPageFn: func(_ context.Context, _, _ int) (*models.PostPage, error) {
			return &models.PostPage{}, nil
		},
		listByAuthorPageFn: func(_ context.Context, _ uint, _, _ int) (*models.PostPage, error) {
			return &models.PostPage{}, nil
		},
		updateFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}
