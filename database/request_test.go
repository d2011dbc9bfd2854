package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContentRequest_StartsPending(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	request := &ContentRequest{
		UserID:    1,
		Title:     "Severance",
		MediaType: MediaTypeTV,
		Status:    RequestStatusApproved, // must be ignored
	}
	require.NoError(t, client.CreateContentRequest(ctx, request))

	got, err := client.GetContentRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, RequestStatusPending, got.Status)
	assert.Equal(t, "Severance", got.Title)
}

func TestUpdateContentRequestStatus(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	request := &ContentRequest{UserID: 1, Title: "Severance", MediaType: MediaTypeTV}
	require.NoError(t, client.CreateContentRequest(ctx, request))

	require.NoError(t, client.UpdateContentRequestStatus(ctx, request.ID, RequestStatusApproved, "on the list"))

	got, err := client.GetContentRequestByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, RequestStatusApproved, got.Status)
	assert.Equal(t, "on the list", got.AdminNotes)

	err = client.UpdateContentRequestStatus(ctx, 9999, RequestStatusRejected, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListContentRequests_StatusFilter(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	first := &ContentRequest{UserID: 1, Title: "Severance", MediaType: MediaTypeTV}
	require.NoError(t, client.CreateContentRequest(ctx, first))
	second := &ContentRequest{UserID: 2, Title: "Heat", MediaType: MediaTypeMovie}
	require.NoError(t, client.CreateContentRequest(ctx, second))
	require.NoError(t, client.UpdateContentRequestStatus(ctx, second.ID, RequestStatusAdded, ""))

	all, total, err := client.ListContentRequests(ctx, nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	added := RequestStatusAdded
	filtered, total, err := client.ListContentRequests(ctx, &added, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Heat", filtered[0].Title)
}

func TestListContentRequestsByUser(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.CreateContentRequest(ctx, &ContentRequest{UserID: 1, Title: "Severance"}))
	require.NoError(t, client.CreateContentRequest(ctx, &ContentRequest{UserID: 1, Title: "Heat"}))
	require.NoError(t, client.CreateContentRequest(ctx, &ContentRequest{UserID: 2, Title: "Alien"}))

	list, total, err := client.ListContentRequestsByUser(ctx, 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}
