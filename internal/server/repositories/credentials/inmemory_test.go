package credentials

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stravastats/internal/common"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

func TestInMemory_GetMissing(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.Get(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInMemory_SaveReplacesTriple(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	first := &models.Credential{UserID: 1, AccessToken: "at1", RefreshToken: "rt1", ExpiresAt: time.Unix(100, 0)}
	require.NoError(t, repo.Save(ctx, first))

	second := &models.Credential{UserID: 1, AccessToken: "at2", RefreshToken: "rt2", ExpiresAt: time.Unix(200, 0)}
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "at2", got.AccessToken)
	assert.Equal(t, "rt2", got.RefreshToken)
	assert.Equal(t, time.Unix(200, 0), got.ExpiresAt)

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestInMemory_GetReturnsCopy(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Credential{UserID: 1, AccessToken: "at"}))

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	got.AccessToken = "mutated"

	again, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "at", again.AccessToken)
}
