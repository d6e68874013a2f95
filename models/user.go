package models

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	AboutMe      string    `gorm:"size:140" json:"about_me"`
	Avatar       string    `json:"avatar"`
	LastSeen     time.Time `json:"last_seen"`
	GoogleID     *string   `gorm:"uniqueIndex" json:"-"`
	Posts        []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// SetPassword stores a salted one-way hash of the raw password. The raw
// value is never persisted.
func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether raw matches the stored hash.
func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}

// AvatarURL returns the user's avatar. Users without an uploaded avatar get
// a Gravatar identicon derived from their email.
func (u *User) AvatarURL(size int) string {
	if u.Avatar != "" {
		return u.Avatar
	}
	digest := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=%d", digest, size)
}

// ResetToken issues a signed, time-bounded password-reset token carrying
// only the user id and an expiry instant.
func (u *User) ResetToken(ttl time.Duration, secret string) (string, error) {
	claims := jwt.MapClaims{
		"reset_password": u.ID,
		"exp":            time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyResetToken resolves a reset token back to its user. It returns nil
// on signature mismatch, malformed token or expiry without distinguishing
// the cause.
func VerifyResetToken(db *gorm.DB, token, secret string) *User {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	id, ok := claims["reset_password"].(float64)
	if !ok {
		return nil
	}

	var user User
	if err := db.First(&user, uint(id)).Error; err != nil {
		return nil
	}
	return &user
}
