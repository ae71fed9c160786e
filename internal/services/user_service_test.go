package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
	"bookvault/internal/services"
	"bookvault/internal/storage"
)

func seedUser(t *testing.T, repo *repositories.MockUserRepository) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:        "Ann",
		LastName:         "Lee",
		Email:            "ann@x.com",
		Password:         "hash",
		Role:             models.RoleUser,
		ProfilePicture:   "http://files.test/users/avatars/old.jpg",
		ProfilePictureID: "users/avatars/old.jpg",
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserService_UpdateProfileReplacesPicture(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewMockUserRepository()
	store := &MockObjectStore{}
	svc := services.NewUserService(users, store, zap.NewNop())
	user := seedUser(t, users)

	store.On("Upload", mock.Anything, "users/avatars", "cover.jpg", "image/jpeg", mock.Anything).
		Return(storage.Object{URL: "http://files.test/users/avatars/new.jpg", PublicID: "users/avatars/new.jpg"}, nil).Once()
	store.On("Destroy", mock.Anything, "users/avatars/old.jpg").Return(nil).Once()

	updated, err := svc.UpdateProfile(ctx, user.ID, services.ProfileUpdate{
		FirstName: " Anna ",
		Location:  "Pune",
	}, pngUpload(t, 20, 20))
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.FirstName)
	assert.Equal(t, "Lee", updated.LastName)
	assert.Equal(t, "Pune", updated.Location)
	assert.Equal(t, "users/avatars/new.jpg", updated.ProfilePictureID)
	store.AssertExpectations(t)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://files.test/users/avatars/new.jpg", stored.ProfilePicture)
}

func TestUserService_UpdateProfileUploadFailure(t *testing.T) {
	ctx := context.Background()
	users := repositories.NewMockUserRepository()
	store := &MockObjectStore{}
	svc := services.NewUserService(users, store, zap.NewNop())
	user := seedUser(t, users)

	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.Object{}, errors.New("bucket unavailable"))

	_, err := svc.UpdateProfile(ctx, user.ID, services.ProfileUpdate{FirstName: "Anna"}, pngUpload(t, 20, 20))
	require.Error(t, err)
	assert.Equal(t, services.KindInternal, services.KindOf(err))
	store.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.FirstName)
}

func TestUserService_GetUserByID(t *testing.T) {
	users := repositories.NewMockUserRepository()
	svc := services.NewUserService(users, &MockObjectStore{}, zap.NewNop())

	_, err := svc.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}
