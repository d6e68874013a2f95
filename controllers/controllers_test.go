package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/config"
	"github.com/microblog-hq/api-go/mail"
	"github.com/microblog-hq/api-go/middleware"
	"github.com/microblog-hq/api-go/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestRouter wires the controllers against an in-memory SQLite
// database, mirroring the route layout in routes.SetupRoutes.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Post{}, &models.Follow{}))

	cfg := &config.Config{
		JWTSecret:       "test-secret-key",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		ResetTokenTTL:   10 * time.Minute,
		PublicURL:       "http://localhost:8080",
		MailSender:      "no-reply@test.local",
	}
	mailer := mail.New(cfg)

	authController := NewAuthController(db, cfg, mailer)
	userController := NewUserController(db, nil)
	postController := NewPostController(db)
	feedController := NewFeedController(db)
	interactionController := NewInteractionController(db)

	r := gin.New()

	public := r.Group("/api")
	public.POST("/register", authController.Register)
	public.POST("/login", authController.Login)
	public.POST("/reset-password", authController.RequestPasswordReset)
	public.POST("/reset-password/confirm", authController.ResetPassword)

	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(db, cfg.JWTSecret))
	protected.POST("/logout", authController.Logout)
	protected.POST("/refresh-token", authController.RefreshToken)
	protected.GET("/profile", authController.GetProfile)
	protected.PUT("/profile", authController.UpdateProfile)
	protected.GET("/users/:username", userController.GetUserProfile)
	protected.GET("/search/users", userController.SearchUsers)
	protected.GET("/suggested-users", userController.GetSuggestedUsers)
	protected.POST("/posts", postController.CreatePost)
	protected.GET("/users/:username/posts", postController.GetUserPosts)
	protected.GET("/explore", postController.Explore)
	protected.GET("/feed", feedController.GetFeed)
	protected.POST("/users/:username/follow", interactionController.FollowUser)
	protected.DELETE("/users/:username/follow", interactionController.UnfollowUser)
	protected.GET("/users/:username/followers", interactionController.GetUserFollowers)
	protected.GET("/users/:username/following", interactionController.GetUserFollowing)

	return r, db
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates an account through the API and returns its
// access token.
func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", username)

	w := doJSON(r, "POST", "/api/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, 201, w.Code, w.Body.String())

	w = doJSON(r, "POST", "/api/login", map[string]string{
		"email":    email,
		"password": "password123",
	}, "")
	require.Equal(t, 200, w.Code, w.Body.String())

	token, ok := decode(t, w)["access_token"].(string)
	require.True(t, ok)
	return token
}
