package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
	"bookvault/internal/storage"
)

const avatarFolder = "users/avatars"

// UserService handles profile reads and edits.
type UserService struct {
	users repositories.UserRepository
	store storage.ObjectStore
	log   *zap.Logger
}

func NewUserService(users repositories.UserRepository, store storage.ObjectStore, log *zap.Logger) *UserService {
	return &UserService{users: users, store: store, log: log}
}

// ProfileUpdate holds the editable profile fields. Empty fields are left unchanged.
type ProfileUpdate struct {
	FirstName        string
	LastName         string
	NativeLanguage   string
	LearningLanguage string
	Location         string
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies in and, when picture is set, replaces the profile
// picture. The previous uploaded picture is removed after the user is saved.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate, picture *Upload) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	setIfPresent(&user.FirstName, in.FirstName)
	setIfPresent(&user.LastName, in.LastName)
	setIfPresent(&user.NativeLanguage, in.NativeLanguage)
	setIfPresent(&user.LearningLanguage, in.LearningLanguage)
	setIfPresent(&user.Location, in.Location)

	var previous string
	if picture != nil {
		obj, err := uploadImage(ctx, s.store, avatarFolder, picture)
		if err != nil {
			return nil, err
		}
		previous = user.ProfilePictureID
		user.ProfilePicture = obj.URL
		user.ProfilePictureID = obj.PublicID
	}

	if err := s.users.Update(ctx, user); err != nil {
		if picture != nil {
			destroyQuietly(ctx, s.store, s.log, user.ProfilePictureID)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	destroyQuietly(ctx, s.store, s.log, previous)
	return user, nil
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
