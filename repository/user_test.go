package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMatchesSubstring(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := testContext()

	createUser(t, db, "susan")
	createUser(t, db, "susanna")
	createUser(t, db, "mary")

	found, total, err := users.Search(ctx, "usa", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, found, 2)
	assert.Equal(t, "susan", found[0].Username)
	assert.Equal(t, "susanna", found[1].Username)

	found, total, err = users.Search(ctx, "SUSAN", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, found, 2)
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	ctx := testContext()

	createUser(t, db, "ab_cd")
	createUser(t, db, "abxcd")
	createUser(t, db, "mary")

	// "_" in the input is the literal character, not a single-char wildcard.
	found, total, err := users.Search(ctx, "b_c", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "ab_cd", found[0].Username)

	// "%" never matches everything.
	found, total, err = users.Search(ctx, "%", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, found)
}
