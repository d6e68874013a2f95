package controllers

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microblog-hq/api-go/config"
	"github.com/microblog-hq/api-go/mail"
	"github.com/microblog-hq/api-go/models"
	"github.com/microblog-hq/api-go/repository"
	"github.com/microblog-hq/api-go/utils"
	"gorm.io/gorm"
)

type AuthController struct {
	DB     *gorm.DB
	Users  repository.UserRepository
	Cfg    *config.Config
	Mailer *mail.Mailer
}

func NewAuthController(db *gorm.DB, cfg *config.Config, mailer *mail.Mailer) *AuthController {
	return &AuthController{
		DB:     db,
		Users:  repository.NewUserRepository(db),
		Cfg:    cfg,
		Mailer: mailer,
	}
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// validateUsername enforces the handle format and the reserved-name list.
func validateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if len(trimmed) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(trimmed) > 64 {
		return fmt.Errorf("username must be no more than 64 characters long")
	}
	if !usernamePattern.MatchString(trimmed) {
		return fmt.Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}

	reserved := []string{"admin", "root", "api", "www", "mail", "test", "demo", "user", "guest"}
	for _, word := range reserved {
		if strings.EqualFold(trimmed, word) {
			return fmt.Errorf("this username is reserved and cannot be used")
		}
	}
	return nil
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		AboutMe  string `json:"about_me" binding:"max=140"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	if err := validateUsername(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	ctx := c.Request.Context()
	if existing, err := ac.Users.ByUsername(ctx, input.Username); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken", "success": false})
		return
	}
	if existing, err := ac.Users.ByEmail(ctx, input.Email); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered", "success": false})
		return
	}

	user := models.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.ToLower(input.Email),
		AboutMe:  input.AboutMe,
		LastSeen: time.Now().UTC(),
	}
	if err := user.SetPassword(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}

	if err := ac.Users.Create(ctx, &user); err != nil {
		// The unique indexes are the backstop for races past the checks above.
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists", "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.Users.ByEmail(c.Request.Context(), strings.ToLower(input.Email))
	if err != nil || user == nil || !user.CheckPassword(input.Password) {
		// Same answer for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	accessToken, refreshToken, err := ac.issueTokens(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "username": user.Username, "avatar": user.AvatarURL(128)},
		"success":       true,
	})
}

// issueTokens signs a fresh access/refresh token pair and records the
// refresh token so it can be rotated or revoked. The refresh token carries a
// jti so two tokens minted within the same second are still distinct;
// otherwise rotation could re-issue the byte-identical token it just spent.
func (ac *AuthController) issueTokens(user *models.User) (string, string, error) {
	accessBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(ac.Cfg.AccessTokenTTL).Unix(),
	})
	refreshBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(ac.Cfg.RefreshTokenTTL).Unix(),
		"jti":     uuid.New().String(),
	})

	accessToken, err := accessBase.SignedString([]byte(ac.Cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}
	refreshToken, err := refreshBase.SignedString([]byte(ac.Cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}

	err = ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(ac.Cfg.RefreshTokenTTL),
	}).Error
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		ac.DB.Delete(&refreshToken)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	user, err := ac.Users.ByID(c.Request.Context(), refreshToken.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	// Rotate: the presented token is spent either way.
	ac.DB.Delete(&refreshToken)

	accessToken, newRefreshToken, err := ac.issueTokens(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"user":          gin.H{"id": user.ID, "email": user.Email, "username": user.Username, "avatar": user.AvatarURL(128)},
		"success":       true,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	// Token not found still counts as logged out.
	ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	user, err := ac.Users.ByID(c.Request.Context(), claims.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"about_me":  user.AboutMe,
			"avatar":    user.AvatarURL(128),
			"last_seen": user.LastSeen,
			"createdAt": user.CreatedAt,
		},
	})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Username *string `json:"username"`
		AboutMe  *string `json:"about_me"`
		Avatar   *string `json:"avatar"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := ac.Users.ByID(ctx, claims.UserID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.Username != nil && *input.Username != user.Username {
		if err := validateUsername(*input.Username); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if existing, err := ac.Users.ByUsername(ctx, *input.Username); err == nil && existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.AboutMe != nil {
		if len(*input.AboutMe) > 140 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "about_me must be at most 140 characters"})
			return
		}
		user.AboutMe = *input.AboutMe
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := ac.Users.Update(ctx, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"about_me": user.AboutMe,
			"avatar":   user.AvatarURL(128),
		},
	})
}

func (ac *AuthController) RequestPasswordReset(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	// Always the same answer so the endpoint cannot be used to probe for
	// registered addresses.
	user, err := ac.Users.ByEmail(c.Request.Context(), strings.ToLower(input.Email))
	if err == nil && user != nil {
		if token, terr := user.ResetToken(ac.Cfg.ResetTokenTTL, ac.Cfg.JWTSecret); terr == nil {
			ac.Mailer.SendPasswordReset(user, token)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "If the address is registered, a reset link has been sent",
	})
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	user := models.VerifyResetToken(ac.DB, input.Token, ac.Cfg.JWTSecret)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "success": false})
		return
	}

	if err := user.SetPassword(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}
	if err := ac.Users.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password", "success": false})
		return
	}

	// Existing sessions are revoked along with the old password.
	ac.DB.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset"})
}
