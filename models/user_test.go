package models

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Post{}, &Follow{}, &RefreshToken{}))
	return db
}

func TestPasswordHashing(t *testing.T) {
	u := User{Username: "susan"}
	require.NoError(t, u.SetPassword("cat"))

	assert.False(t, u.CheckPassword("dog"))
	assert.True(t, u.CheckPassword("cat"))
	assert.NotContains(t, u.PasswordHash, "cat")
}

func TestAvatarURL(t *testing.T) {
	u := User{Username: "john", Email: "John@Example.com"}

	url := u.AvatarURL(128)
	assert.True(t, strings.HasPrefix(url, "https://www.gravatar.com/avatar/"))
	assert.Contains(t, url, "s=128")
	// Email case must not change the digest.
	lower := User{Username: "john", Email: "john@example.com"}
	assert.Equal(t, lower.AvatarURL(128), url)

	u.Avatar = "https://cdn.example.com/avatars/1.png"
	assert.Equal(t, "https://cdn.example.com/avatars/1.png", u.AvatarURL(128))
}

func TestResetTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	secret := "test-secret"

	u := User{Username: "susan", Email: "susan@example.com"}
	require.NoError(t, db.Create(&u).Error)

	token, err := u.ResetToken(10*time.Minute, secret)
	require.NoError(t, err)

	got := VerifyResetToken(db, token, secret)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}

func TestResetTokenExpired(t *testing.T) {
	db := setupTestDB(t)
	secret := "test-secret"

	u := User{Username: "susan", Email: "susan@example.com"}
	require.NoError(t, db.Create(&u).Error)

	// Already past its expiry at issuance.
	token, err := u.ResetToken(-1*time.Second, secret)
	require.NoError(t, err)

	assert.Nil(t, VerifyResetToken(db, token, secret))
}

func TestResetTokenInvalid(t *testing.T) {
	db := setupTestDB(t)

	u := User{Username: "susan", Email: "susan@example.com"}
	require.NoError(t, db.Create(&u).Error)

	token, err := u.ResetToken(10*time.Minute, "right-secret")
	require.NoError(t, err)

	// Wrong signing key, garbage input and a token for a missing user all
	// answer the same way.
	assert.Nil(t, VerifyResetToken(db, token, "wrong-secret"))
	assert.Nil(t, VerifyResetToken(db, "not-a-token", "right-secret"))

	ghost := User{ID: 9999}
	ghostToken, err := ghost.ResetToken(10*time.Minute, "right-secret")
	require.NoError(t, err)
	assert.Nil(t, VerifyResetToken(db, ghostToken, "right-secret"))
}

func TestStringListSchemaType(t *testing.T) {
	// The schema parser must be able to classify Hashtags on its own;
	// AutoMigrate refuses the whole Post model otherwise.
	s, err := schema.Parse(&Post{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field, ok := s.FieldsByName["Hashtags"]
	require.True(t, ok)
	assert.Equal(t, schema.DataType("text"), field.DataType)
}

func TestStringListRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	u := User{Username: "susan", Email: "susan@example.com"}
	require.NoError(t, db.Create(&u).Error)

	post := Post{Body: "hello #golang #testing", Hashtags: StringList{"golang", "testing"}, UserID: u.ID}
	require.NoError(t, db.Create(&post).Error)

	var got Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, StringList{"golang", "testing"}, got.Hashtags)
}

func TestUniqueConstraints(t *testing.T) {
	db := setupTestDB(t)

	u := User{Username: "susan", Email: "susan@example.com"}
	require.NoError(t, db.Create(&u).Error)

	for i, dup := range []User{
		{Username: "susan", Email: "other@example.com"},
		{Username: "other", Email: "susan@example.com"},
	} {
		err := db.Create(&dup).Error
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, fmt.Sprintf("case %d", i))
	}
}
