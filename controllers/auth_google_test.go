package controllers

import (
	"testing"
	"time"

	"github.com/microblog-hq/api-go/config"
	"github.com/microblog-hq/api-go/mail"
	"github.com/microblog-hq/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGoogleAuthController(t *testing.T) (*AuthController, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	cfg := &config.Config{
		JWTSecret:       "test-secret-key",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
	return NewAuthController(db, cfg, mail.New(cfg)), db
}

func TestGoogleUserFindOrCreate(t *testing.T) {
	ac, db := setupGoogleAuthController(t)

	info := &config.GoogleUserInfo{
		ID:      "google-123",
		Email:   "Susan@Example.com",
		Picture: "https://lh3.example.com/susan.png",
	}

	user, err := ac.findOrCreateGoogleUser(info)
	require.NoError(t, err)
	assert.Equal(t, "susan@example.com", user.Email)
	assert.Equal(t, "Susan", user.Username)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-123", *user.GoogleID)

	// A second sign-in resolves to the same account.
	again, err := ac.findOrCreateGoogleUser(info)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGoogleUserLinksExistingEmailAccount(t *testing.T) {
	ac, _ := setupGoogleAuthController(t)

	existing := models.User{Username: "mary", Email: "mary@example.com"}
	require.NoError(t, existing.SetPassword("password123"))
	require.NoError(t, ac.DB.Create(&existing).Error)

	user, err := ac.findOrCreateGoogleUser(&config.GoogleUserInfo{
		ID:    "google-456",
		Email: "mary@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "google-456", *user.GoogleID)
}

func TestGoogleUserLookupErrorSurfaces(t *testing.T) {
	ac, db := setupGoogleAuthController(t)

	// A failing lookup is a database error, not a missing account; it must
	// not fall through to the create path.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	user, err := ac.findOrCreateGoogleUser(&config.GoogleUserInfo{
		ID:    "google-789",
		Email: "john@example.com",
	})
	assert.Error(t, err)
	assert.Nil(t, user)
}
