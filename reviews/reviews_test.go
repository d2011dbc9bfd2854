package reviews

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinelog/cinelog/database"
)

func newTestService(t *testing.T) (*Service, *database.Client) {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return New(db), db
}

func seedMedia(t *testing.T, db *database.Client) *database.Media {
	t.Helper()
	media := &database.Media{TmdbID: 603, Title: "The Matrix", MediaType: database.MediaTypeMovie}
	require.NoError(t, db.CreateMedia(context.Background(), media))
	return media
}

func TestAddReview_RatingBounds(t *testing.T) {
	svc, db := newTestService(t)
	media := seedMedia(t, db)
	ctx := context.Background()

	tests := []struct {
		name    string
		rating  int
		wantErr error
	}{
		{name: "below range", rating: 0, wantErr: ErrInvalidRating},
		{name: "above range", rating: 6, wantErr: ErrInvalidRating},
		{name: "negative", rating: -1, wantErr: ErrInvalidRating},
		{name: "lower bound", rating: 1},
		{name: "upper bound", rating: 5},
	}

	user := uint(1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := svc.AddReview(ctx, user, media.ID, tt.rating, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rating, review.Rating)
			user++ // each valid case needs a fresh user
		})
	}
}

func TestAddReview_OncePerUser(t *testing.T) {
	svc, db := newTestService(t)
	media := seedMedia(t, db)
	ctx := context.Background()

	_, err := svc.AddReview(ctx, 1, media.ID, 4, "solid")
	require.NoError(t, err)

	_, err = svc.AddReview(ctx, 1, media.ID, 5, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestAddReview_UnknownMedia(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddReview(context.Background(), 1, 9999, 4, "")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdateReview_OwnerOnly(t *testing.T) {
	svc, db := newTestService(t)
	media := seedMedia(t, db)
	ctx := context.Background()

	review, err := svc.AddReview(ctx, 1, media.ID, 3, "ok")
	require.NoError(t, err)

	_, err = svc.UpdateReview(ctx, 2, review.ID, 5, "not yours")
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.UpdateReview(ctx, 1, review.ID, 5, "rewatched")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "rewatched", updated.Comment)
}

func TestDeleteReview_OwnerOnly(t *testing.T) {
	svc, db := newTestService(t)
	media := seedMedia(t, db)
	ctx := context.Background()

	review, err := svc.AddReview(ctx, 1, media.ID, 3, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteReview(ctx, 2, review.ID), ErrNotOwner)
	require.NoError(t, svc.DeleteReview(ctx, 1, review.ID))
	assert.ErrorIs(t, svc.DeleteReview(ctx, 1, review.ID), database.ErrNotFound)

	// the slot is free again
	_, err = svc.AddReview(ctx, 1, media.ID, 4, "")
	require.NoError(t, err)
}

func TestToggleLike(t *testing.T) {
	svc, db := newTestService(t)
	media := seedMedia(t, db)
	ctx := context.Background()

	review, err := svc.AddReview(ctx, 1, media.ID, 5, "")
	require.NoError(t, err)

	// authors cannot like their own review
	_, _, err = svc.ToggleLike(ctx, 1, review.ID)
	assert.ErrorIs(t, err, ErrOwnReview)

	liked, total, err := svc.ToggleLike(ctx, 2, review.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), total)

	liked, total, err = svc.ToggleLike(ctx, 2, review.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, total)

	has, err := svc.HasLiked(ctx, 2, review.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAverageRating(t *testing.T) {
	svc, db := newTestService(t)
	media := seedMedia(t, db)
	ctx := context.Background()

	for user, rating := range map[uint]int{1: 3, 2: 4, 3: 5} {
		_, err := svc.AddReview(ctx, user, media.ID, rating, "")
		require.NoError(t, err)
	}

	avg, err := svc.AverageRating(ctx, media.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 0.001)

	dist, err := svc.RatingDistribution(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{1: 0, 2: 0, 3: 1, 4: 1, 5: 1}, dist)
}

func TestToggleFavorite(t *testing.T) {
	svc, db := newTestService(t)
	media := seedMedia(t, db)
	ctx := context.Background()

	_, err := svc.ToggleFavorite(ctx, 1, 9999)
	assert.ErrorIs(t, err, database.ErrNotFound)

	favorite, err := svc.ToggleFavorite(ctx, 1, media.ID)
	require.NoError(t, err)
	assert.True(t, favorite)

	favorite, err = svc.ToggleFavorite(ctx, 1, media.ID)
	require.NoError(t, err)
	assert.False(t, favorite)

	list, total, err := svc.ListFavorites(ctx, 1, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}
