package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&TokenRecord{}))

	return db
}

func TestUpsertInsertsThenUpdates(t *testing.T) {
	store := NewGormTokenStore(newTestDB(t))
	ctx := context.Background()

	first := &TokenRecord{
		RealmID:      "realm-1",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour).UTC(),
	}
	require.NoError(t, store.Upsert(ctx, first))

	refreshExpiry := time.Now().Add(100 * 24 * time.Hour).UTC()
	second := &TokenRecord{
		RealmID:          "realm-1",
		AccessToken:      "access-2",
		RefreshToken:     "refresh-2",
		ExpiresAt:        time.Now().Add(2 * time.Hour).UTC(),
		RefreshExpiresAt: &refreshExpiry,
	}
	require.NoError(t, store.Upsert(ctx, second))

	var count int64
	require.NoError(t, store.db.Model(&TokenRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "upsert must keep exactly one row per realm")

	rec, err := store.Get(ctx, "realm-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", rec.AccessToken)
	assert.Equal(t, "refresh-2", rec.RefreshToken)
	require.NotNil(t, rec.RefreshExpiresAt)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestUpsertSeparateRealms(t *testing.T) {
	store := NewGormTokenStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &TokenRecord{
		RealmID:      "realm-1",
		AccessToken:  "a1",
		RefreshToken: "r1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}))
	require.NoError(t, store.Upsert(ctx, &TokenRecord{
		RealmID:      "realm-2",
		AccessToken:  "a2",
		RefreshToken: "r2",
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	var count int64
	require.NoError(t, store.db.Model(&TokenRecord{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	rec, err := store.Get(ctx, "realm-2")
	require.NoError(t, err)
	assert.Equal(t, "a2", rec.AccessToken)
}

func TestGetMissingRealm(t *testing.T) {
	store := NewGormTokenStore(newTestDB(t))

	_, err := store.Get(context.Background(), "realm-unknown")
	assert.ErrorIs(t, err, ErrNoRecord)
}
