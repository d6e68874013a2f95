package repository

import (
	"testing"

	"github.com/microblog-hq/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowAndUnfollow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testContext()

	john := createUser(t, db, "john")
	susan := createUser(t, db, "susan")

	following, err := repo.IsFollowing(ctx, john.ID, susan.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, repo.Follow(ctx, john.ID, susan.ID))

	following, err = repo.IsFollowing(ctx, john.ID, susan.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The reverse direction is a separate edge.
	reverse, err := repo.IsFollowing(ctx, susan.ID, john.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	require.NoError(t, repo.Unfollow(ctx, john.ID, susan.ID))

	following, err = repo.IsFollowing(ctx, john.ID, susan.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testContext()

	john := createUser(t, db, "john")
	susan := createUser(t, db, "susan")

	require.NoError(t, repo.Follow(ctx, john.ID, susan.ID))
	require.NoError(t, repo.Follow(ctx, john.ID, susan.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Unfollowing a pair that is not followed is a no-op.
	require.NoError(t, repo.Unfollow(ctx, susan.ID, john.ID))
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestNoSelfFollow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testContext()

	john := createUser(t, db, "john")

	require.NoError(t, repo.Follow(ctx, john.ID, john.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDuplicateEdgeInsertIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testContext()

	john := createUser(t, db, "john")
	susan := createUser(t, db, "susan")

	// Simulate losing the check-then-insert race: the edge appears after
	// the existence check would have run.
	require.NoError(t, db.Create(&models.Follow{FollowerID: john.ID, FollowedID: susan.ID}).Error)
	require.NoError(t, repo.Follow(ctx, john.ID, susan.ID))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdjacencySymmetry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testContext()

	john := createUser(t, db, "john")
	susan := createUser(t, db, "susan")
	mary := createUser(t, db, "mary")

	require.NoError(t, repo.Follow(ctx, john.ID, susan.ID))
	require.NoError(t, repo.Follow(ctx, mary.ID, susan.ID))

	// is_following(A,B) iff B in following_of(A) iff A in followers_of(B).
	following, total, err := repo.Following(ctx, john.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, following, 1)
	assert.Equal(t, susan.ID, following[0].ID)

	followers, total, err := repo.Followers(ctx, susan.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	ids := []uint{followers[0].ID, followers[1].ID}
	assert.ElementsMatch(t, []uint{john.ID, mary.ID}, ids)

	followers, total, err = repo.Followers(ctx, john.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, followers)

	followerCount, err := repo.FollowerCount(ctx, susan.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followerCount)

	followingCount, err := repo.FollowingCount(ctx, john.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, followingCount)
}
