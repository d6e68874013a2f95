package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/config"
	"github.com/microblog-hq/api-go/models"
	"gorm.io/gorm"
)

// GoogleLogin signs a user in with a Google credential: either an OAuth
// authorization code, an ID token, or an access token. Unknown accounts are
// created on the fly with a username derived from the email address.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.Cfg.Google == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Google sign-in is not configured", "success": false})
		return
	}

	var input struct {
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var userInfo *config.GoogleUserInfo
	var err error

	switch {
	case input.Code != "" && input.RedirectURI != "":
		token, exchErr := ac.Cfg.Google.ExchangeCode(c.Request.Context(), input.Code)
		if exchErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to exchange code for token", "success": false})
			return
		}
		userInfo, err = ac.Cfg.Google.GetUserInfo(token.AccessToken)
	case input.IDToken != "":
		userInfo, err = ac.Cfg.Google.VerifyIDToken(input.IDToken)
	case input.AccessToken != "":
		userInfo, err = ac.Cfg.Google.GetUserInfo(input.AccessToken)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either code with redirect_uri, id_token, or access_token is required", "success": false})
		return
	}

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token", "success": false})
		return
	}

	user, err := ac.findOrCreateGoogleUser(userInfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "success": false})
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

// findOrCreateGoogleUser resolves a verified Google identity to a local
// account, creating one when neither the google id nor the email is known.
// A lookup failure other than record-not-found is a database error and must
// not fall through to the create path.
func (ac *AuthController) findOrCreateGoogleUser(userInfo *config.GoogleUserInfo) (*models.User, error) {
	var user models.User
	err := ac.DB.Where("google_id = ? OR email = ?", userInfo.ID, strings.ToLower(userInfo.Email)).
		First(&user).Error

	switch {
	case err == nil:
		if user.GoogleID == nil || *user.GoogleID == "" {
			user.GoogleID = &userInfo.ID
			if user.Avatar == "" && userInfo.Picture != "" {
				user.Avatar = userInfo.Picture
			}
			if err := ac.DB.Save(&user).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username: ac.uniqueUsername(userInfo.Email),
			Email:    strings.ToLower(userInfo.Email),
			Avatar:   userInfo.Picture,
			GoogleID: &userInfo.ID,
			LastSeen: time.Now().UTC(),
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil

	default:
		return nil, err
	}
}

// uniqueUsername derives a free handle from the local part of an email.
func (ac *AuthController) uniqueUsername(email string) string {
	base := strings.Split(email, "@")[0]
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, base)
	if base == "" || !(base[0] >= 'a' && base[0] <= 'z' || base[0] >= 'A' && base[0] <= 'Z') {
		base = "user_" + base
	}

	username := base
	for counter := 1; ; counter++ {
		var existing models.User
		if ac.DB.Where("username = ?", username).First(&existing).Error != nil {
			return username
		}
		username = base + strconv.Itoa(counter)
	}
}
