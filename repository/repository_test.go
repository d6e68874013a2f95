package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/microblog-hq/api-go/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Follow{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		LastSeen: time.Now().UTC(),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createPost(t *testing.T, db *gorm.DB, user *models.User, body string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Body: body, Hashtags: ExtractHashtags(body), UserID: user.ID, CreatedAt: at}
	require.NoError(t, db.Create(p).Error)
	return p
}

func testContext() context.Context {
	return context.Background()
}
