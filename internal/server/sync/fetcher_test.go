package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stravastats/internal/common"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

type fakeTokenSource struct {
	token string
	err   error
}

func (f *fakeTokenSource) GetValidAccessToken(ctx context.Context, userID int64) (string, error) {
	return f.token, f.err
}

type fakeLister struct {
	acts []models.Activity
	err  error

	lastToken   string
	lastPage    int
	lastPerPage int
}

func (f *fakeLister) ListActivities(ctx context.Context, accessToken string, page, perPage int) ([]models.Activity, error) {
	f.lastToken = accessToken
	f.lastPage = page
	f.lastPerPage = perPage
	return f.acts, f.err
}

func TestFetchPage_PassesTokenAndPaging(t *testing.T) {
	lister := &fakeLister{acts: []models.Activity{{ExternalID: 1}}}
	f := NewFetcher(&fakeTokenSource{token: "at"}, lister, 0)

	acts, err := f.FetchPage(context.Background(), 42, 3)
	require.NoError(t, err)
	assert.Len(t, acts, 1)
	assert.Equal(t, "at", lister.lastToken)
	assert.Equal(t, 3, lister.lastPage)
	assert.Equal(t, DefaultPageSize, lister.lastPerPage)
}

func TestFetchPage_TokenFailurePropagates(t *testing.T) {
	f := NewFetcher(&fakeTokenSource{err: common.ErrNotAuthenticated}, &fakeLister{}, 50)

	_, err := f.FetchPage(context.Background(), 42, 1)
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestFetchPage_ProviderErrorWrapsFetchFailed(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection reset")}
	f := NewFetcher(&fakeTokenSource{token: "at"}, lister, 50)

	_, err := f.FetchPage(context.Background(), 42, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetchFailed)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFetchPage_EmptyPageIsNotAnError(t *testing.T) {
	f := NewFetcher(&fakeTokenSource{token: "at"}, &fakeLister{acts: []models.Activity{}}, 50)

	acts, err := f.FetchPage(context.Background(), 42, 9)
	require.NoError(t, err)
	assert.Empty(t, acts)
}
