// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"github.com/Sudip2708/poustovnik-english/internal/auth"
	"github.com/Sudip2708/poustovnik-english/internal/models"
	"github.com/Sudip2708/poustovnik-english/internal/repository"
	"github.com/Sudip2708/poustovnik-english/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	pictures *PictureStore
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type UpdateAccountInput struct {
	UserID   uint
	Username string
	Email    string

	// PictureContent, when non-empty, replaces the profile picture.
	PictureContent  []byte
	PictureFilename string
}

type ResetPasswordInput struct {
	UserID          uint
	Password        string
	ConfirmPassword string
}

func NewUserService(userRepo repository.UserRepository, pictures *PictureStore) *UserService {
	return &UserService{userRepo: userRepo, pictures: pictures}
}

// asValidationError lifts a validation failure into the error shape handlers
// map to a 400 response.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	return models.NewValidationError(err.Error())
}

func validateRegistration(in RegisterInput) error {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return asValidationError(err)
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return asValidationError(err)
	}
	return validateNewPassword(in.Password, in.ConfirmPassword)
}

func validateNewPassword(password, confirm string) error {
	if err := validation.ValidatePassword(password); err != nil {
		return asValidationError(err)
	}
	return asValidationError(validation.ValidatePasswordConfirmation(password, confirm))
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// Register creates a new account. Uniqueness of username and email is
// ultimately enforced by the database constraints; the repository maps a
// violation to the same validation error, so concurrent registrations with
// the same address cannot both succeed.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email and password pair. Unknown address and wrong
// password produce the same error so the response never reveals which
// accounts exist.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.Password) {
		return nil, models.NewUnauthorizedError("Login unsuccessful. Please check email and password")
	}
	return user, nil
}

// UpdateAccount changes the signed-in user's username, email and optionally
// the profile picture. A replaced picture's old file is removed from disk.
func (s *UserService) UpdateAccount(ctx context.Context, in UpdateAccountInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, asValidationError(err)
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, asValidationError(err)
	}
	user.Username = in.Username
	user.Email = in.Email

	oldPicture := ""
	if len(in.PictureContent) > 0 {
		name, err := s.pictures.Save(in.PictureContent, in.PictureFilename)
		if err != nil {
			return nil, err
		}
		oldPicture = user.ProfilePicture
		user.ProfilePicture = name
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if user.ProfilePicture != "" && oldPicture != "" {
			s.pictures.Remove(user.ProfilePicture)
		}
		return nil, err
	}

	if oldPicture != "" {
		s.pictures.Remove(oldPicture)
	}
	return user, nil
}

// ResetPassword sets a new password for the user named by a verified reset
// token.
func (s *UserService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := validateNewPassword(in.Password, in.ConfirmPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}
