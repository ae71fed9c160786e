package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
)

// newTestDB opens an isolated in-memory SQLite database for one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := repositories.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newUser(email string) *models.User {
	return &models.User{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     email,
		Password:  "hash",
		Role:      models.RoleUser,
	}
}

func TestUserRepositories_Contract(t *testing.T) {
	impls := map[string]func(t *testing.T) repositories.UserRepository{
		"gorm": func(t *testing.T) repositories.UserRepository {
			return repositories.NewGORMUserRepository(newTestDB(t))
		},
		"memory": func(t *testing.T) repositories.UserRepository {
			return repositories.NewMockUserRepository()
		},
	}

	for name, build := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t)

			user := newUser("ann@x.com")
			require.NoError(t, repo.Create(ctx, user))
			assert.NotEmpty(t, user.ID)

			err := repo.Create(ctx, newUser("ann@x.com"))
			assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

			got, err := repo.GetByEmail(ctx, "ann@x.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)

			_, err = repo.GetByEmail(ctx, "ANN@x.com")
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			_, err = repo.GetByID(ctx, "missing")
			assert.ErrorIs(t, err, repositories.ErrNotFound)

			token := "abc"
			expires := time.Now().Add(time.Hour)
			got.EmailVerificationToken = &token
			got.EmailVerificationTokenExpires = &expires
			require.NoError(t, repo.Update(ctx, got))

			got, err = repo.GetByID(ctx, user.ID)
			require.NoError(t, err)
			require.NotNil(t, got.EmailVerificationToken)
			assert.Equal(t, "abc", *got.EmailVerificationToken)

			got.ClearVerificationToken()
			got.IsVerified = true
			require.NoError(t, repo.Update(ctx, got))

			got, err = repo.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Nil(t, got.EmailVerificationToken)
			assert.Nil(t, got.EmailVerificationTokenExpires)
			assert.True(t, got.IsVerified)
		})
	}
}

func TestUserRepositories_ConsumeOTP(t *testing.T) {
	impls := map[string]repositories.UserRepository{
		"gorm":   repositories.NewGORMUserRepository(newTestDB(t)),
		"memory": repositories.NewMockUserRepository(),
	}

	for name, repo := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Second)
			expires, allowedUntil := now.Add(time.Minute), now.Add(10*time.Minute)
			otp := "123456"

			user := newUser("ann@x.com")
			user.OTP, user.OTPExpires = &otp, &expires
			require.NoError(t, repo.Create(ctx, user))

			ok, err := repo.ConsumeOTP(ctx, user.ID, "654321", now, allowedUntil)
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = repo.ConsumeOTP(ctx, user.ID, otp, expires, allowedUntil)
			require.NoError(t, err)
			assert.False(t, ok, "expired code must not be consumed")

			ok, err = repo.ConsumeOTP(ctx, user.ID, otp, now, allowedUntil)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = repo.ConsumeOTP(ctx, user.ID, otp, now, allowedUntil)
			require.NoError(t, err)
			assert.False(t, ok, "code is single use")

			got, err := repo.GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Nil(t, got.OTP)
			assert.Nil(t, got.OTPExpires)
			require.NotNil(t, got.PasswordResetAllowedUntil)
			assert.True(t, allowedUntil.Equal(*got.PasswordResetAllowedUntil))

			ok, err = repo.ConsumeOTP(ctx, "missing", otp, now, allowedUntil)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestUserRepositories_ClearExpired(t *testing.T) {
	impls := map[string]repositories.UserRepository{
		"gorm":   repositories.NewGORMUserRepository(newTestDB(t)),
		"memory": repositories.NewMockUserRepository(),
	}

	for name, repo := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Second)
			past, future := now.Add(-time.Minute), now.Add(time.Minute)
			otp, token := "123456", "tok"

			stale := newUser("stale@x.com")
			stale.OTP, stale.OTPExpires = &otp, &past
			stale.EmailVerificationToken, stale.EmailVerificationTokenExpires = &token, &past
			require.NoError(t, repo.Create(ctx, stale))

			fresh := newUser("fresh@x.com")
			fresh.OTP, fresh.OTPExpires = &otp, &future
			require.NoError(t, repo.Create(ctx, fresh))

			n, err := repo.ClearExpiredOTPs(ctx, now)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			n, err = repo.ClearExpiredVerificationTokens(ctx, now)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			got, err := repo.GetByID(ctx, stale.ID)
			require.NoError(t, err)
			assert.Nil(t, got.OTP)
			assert.Nil(t, got.EmailVerificationToken)

			got, err = repo.GetByID(ctx, fresh.ID)
			require.NoError(t, err)
			require.NotNil(t, got.OTP)
		})
	}
}

func TestCategoryRepository_SoftDeleteLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCategoryRepository(newTestDB(t))

	fiction := &models.Category{Name: "Fiction", Description: "Stories", Status: true}
	require.NoError(t, repo.Create(ctx, fiction))
	hidden := &models.Category{Name: "Drafts", Status: false}
	require.NoError(t, repo.Create(ctx, hidden))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Fiction", active[0].Name)

	taken, err := repo.NameTaken(ctx, "fiction", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.NameTaken(ctx, "Fiction", fiction.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	found, err := repo.Search(ctx, "STOR")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.SoftDelete(ctx, fiction.ID))
	_, err = repo.GetByID(ctx, fiction.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	deleted, err := repo.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.True(t, deleted[0].DeletedAt.Valid)

	require.NoError(t, repo.Restore(ctx, fiction.ID))
	assert.ErrorIs(t, repo.Restore(ctx, fiction.ID), repositories.ErrNotFound)

	n, err := repo.DeleteMany(ctx, []string{fiction.ID, hidden.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBookRepository_LikesAndBookmarks(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	books := repositories.NewGORMBookRepository(db)
	episodes := repositories.NewGORMEpisodeRepository(db)

	book := &models.Book{Name: "Dune", Author: "Herbert", CategoryID: "cat", Price: 10, AccessType: models.AccessFree}
	require.NoError(t, books.Create(ctx, book))

	liked, count, err := books.ToggleLike(ctx, book.ID, "u1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	_, count, err = books.ToggleLike(ctx, book.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	liked, count, err = books.ToggleLike(ctx, book.ID, "u1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(1), count)

	marked, err := books.ToggleBookmark(ctx, book.ID, "u1")
	require.NoError(t, err)
	assert.True(t, marked)

	saved, err := books.ListBookmarked(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, book.ID, saved[0].ID)

	ep := &models.Episode{BookID: book.ID, Title: "One", AudioURL: "u", AudioID: "a", EpisodeNumber: 1}
	require.NoError(t, episodes.Create(ctx, ep))
	_, _, err = episodes.ToggleLike(ctx, ep.ID, "u1")
	require.NoError(t, err)

	require.NoError(t, books.Delete(ctx, book.ID))

	_, err = books.GetByIDUnscoped(ctx, book.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	list, err := episodes.ListByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	saved, err = books.ListBookmarked(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestBookRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMBookRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.Book{Name: "Dune", Author: "Frank Herbert", CategoryID: "c", AccessType: models.AccessFree}))
	require.NoError(t, repo.Create(ctx, &models.Book{Name: "Emma", Author: "Jane Austen", CategoryID: "c", AccessType: models.AccessPremium}))

	got, err := repo.Search(ctx, "herbert", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].Name)

	got, err = repo.Search(ctx, "", models.AccessPremium)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Emma", got[0].Name)
}

func TestSubCategoryRepository_SearchAndDetach(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	subs := repositories.NewGORMSubCategoryRepository(db)
	books := repositories.NewGORMBookRepository(db)

	noir := &models.SubCategory{Name: "Noir", Slug: "noir", Description: "Dark crime", ParentCategoryID: "fiction", Status: true}
	odes := &models.SubCategory{Name: "Odes", Slug: "odes", ParentCategoryID: "poetry", Status: true, Featured: true}
	require.NoError(t, subs.Create(ctx, noir))
	require.NoError(t, subs.Create(ctx, odes))
	err := subs.Create(ctx, &models.SubCategory{Name: "Noir 2", Slug: "noir", ParentCategoryID: "fiction"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)

	taken, err := subs.NameTaken(ctx, "NOIR", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = subs.NameTaken(ctx, "noir", noir.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	found, total, err := subs.Search(ctx, repositories.SubCategoryFilter{Keyword: "crime"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, noir.ID, found[0].ID)

	featured := true
	found, _, err = subs.Search(ctx, repositories.SubCategoryFilter{Featured: &featured, ParentCategoryID: "poetry"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, odes.ID, found[0].ID)

	found, total, err = subs.Search(ctx, repositories.SubCategoryFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 1)

	book := &models.Book{Name: "Big Sleep", Author: "Chandler", CategoryID: "fiction", SubCategoryID: noir.ID, Status: true, AccessType: models.AccessFree}
	hidden := &models.Book{Name: "Draft", Author: "Chandler", CategoryID: "fiction", SubCategoryID: noir.ID, AccessType: models.AccessFree}
	require.NoError(t, books.Create(ctx, book))
	require.NoError(t, books.Create(ctx, hidden))

	listed, err := books.ListBySubCategory(ctx, noir.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, book.ID, listed[0].ID)

	require.NoError(t, subs.SoftDelete(ctx, odes.ID))
	both, err := subs.ListByIDsUnscoped(ctx, []string{noir.ID, odes.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, both, 2)

	require.NoError(t, subs.Delete(ctx, noir.ID))
	assert.ErrorIs(t, subs.Delete(ctx, noir.ID), repositories.ErrNotFound)
	for _, id := range []string{book.ID, hidden.ID} {
		got, err := books.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, got.SubCategoryID)
	}

	n, err := subs.DeleteMany(ctx, []string{odes.ID, "missing"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEpisodeRepository_ListOrderAndLikes(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMEpisodeRepository(newTestDB(t))

	second := &models.Episode{BookID: "b", Title: "Two", AudioURL: "u2", AudioID: "a2", EpisodeNumber: 2}
	first := &models.Episode{BookID: "b", Title: "One", AudioURL: "u1", AudioID: "a1", EpisodeNumber: 1}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	_, _, err := repo.ToggleLike(ctx, second.ID, "u1")
	require.NoError(t, err)

	list, err := repo.ListByBook(ctx, "b")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "One", list[0].Title)
	assert.Equal(t, int64(0), list[0].Likes)
	assert.Equal(t, int64(1), list[1].Likes)

	taken, err := repo.NumberTaken(ctx, "b", 2)
	require.NoError(t, err)
	assert.True(t, taken)

	assert.ErrorIs(t, repo.Delete(ctx, "other-book", first.ID), repositories.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "b", first.ID))
}

func TestCartRepository_MergeAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCartRepository(newTestDB(t))

	cart, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	again, err := repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	require.NoError(t, repo.AddItem(ctx, cart.ID, "book-1", 1))
	require.NoError(t, repo.AddItem(ctx, cart.ID, "book-1", 2))
	require.NoError(t, repo.AddItem(ctx, cart.ID, "book-2", 1))

	cart, err = repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	require.NoError(t, repo.SetItemQuantity(ctx, cart.ID, "book-2", 5))
	assert.ErrorIs(t, repo.SetItemQuantity(ctx, cart.ID, "book-9", 1), repositories.ErrNotFound)

	require.NoError(t, repo.RemoveItem(ctx, cart.ID, "book-1"))
	cart, err = repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	require.NoError(t, repo.Clear(ctx, cart.ID))
	cart, err = repo.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
