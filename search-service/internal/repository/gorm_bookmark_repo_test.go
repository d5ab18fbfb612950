package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/database"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/searchapi"
	"github.com/GrandEmpereur/Bookish-sub000/search-service/internal/domain"
)

func newBookmarkRepo(t *testing.T) *GormBookmarkRepository {
	t.Helper()
	db, err := database.New(&database.Config{
		Driver:       "sqlite",
		FilePath:     "file::memory:",
		LogLevel:     "silent",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, &domain.BookmarkModel{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repo := NewGormBookmarkRepository(db)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo
}

func TestGormBookmarkRepository_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	repo := newBookmarkRepo(t)

	first := &domain.Bookmark{UserID: "u1", ItemType: searchapi.TypeBook, ItemID: "b1", Title: "Dune"}
	require.NoError(t, repo.Create(ctx, first))
	assert.Len(t, first.ID, 26)

	second := &domain.Bookmark{UserID: "u1", ItemType: searchapi.TypeClub, ItemID: "c1", Title: "SF"}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, &domain.Bookmark{UserID: "u2", ItemType: searchapi.TypeBook, ItemID: "b1"}))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, searchapi.TypeBook, list[1].ItemType)

	require.NoError(t, repo.Delete(ctx, "u1", searchapi.TypeBook, "b1"))
	assert.ErrorIs(t, repo.Delete(ctx, "u1", searchapi.TypeBook, "b1"), ErrBookmarkNotFound)

	list, err = repo.ListByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGormBookmarkRepository_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := newBookmarkRepo(t)

	require.NoError(t, repo.Create(ctx, &domain.Bookmark{UserID: "u1", ItemType: searchapi.TypeAuthor, ItemID: "a1"}))
	err := repo.Create(ctx, &domain.Bookmark{UserID: "u1", ItemType: searchapi.TypeAuthor, ItemID: "a1"})
	assert.ErrorIs(t, err, ErrBookmarkExists)
}
