package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/cache"
	"github.com/microblog-hq/api-go/repository"
	"github.com/microblog-hq/api-go/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type UserController struct {
	Users   repository.UserRepository
	Posts   repository.PostRepository
	Follows repository.FollowRepository
	RDB     *redis.Client
}

func NewUserController(db *gorm.DB, rdb *redis.Client) *UserController {
	return &UserController{
		Users:   repository.NewUserRepository(db),
		Posts:   repository.NewPostRepository(db),
		Follows: repository.NewFollowRepository(db),
		RDB:     rdb,
	}
}

type profileStats struct {
	PostsCount     int64 `json:"postsCount"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}

// GetUserProfile godoc
// @Summary Get a user's public profile
// @Description Returns profile fields, post/follower counts, and whether the viewer follows them
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Router /users/{username} [get]
func (uc *UserController) GetUserProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	ctx := c.Request.Context()
	target, err := uc.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var stats profileStats
	statsKey := fmt.Sprintf("profile:stats:%d", target.ID)
	err = cache.Aside(ctx, uc.RDB, statsKey, &stats, 30*time.Second, func() error {
		var err error
		if stats.PostsCount, err = uc.Posts.CountByUser(ctx, target.ID); err != nil {
			return err
		}
		if stats.FollowersCount, err = uc.Follows.FollowerCount(ctx, target.ID); err != nil {
			return err
		}
		stats.FollowingCount, err = uc.Follows.FollowingCount(ctx, target.ID)
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching profile stats"})
		return
	}

	isFollowing := false
	if claims.UserID != target.ID {
		isFollowing, _ = uc.Follows.IsFollowing(ctx, claims.UserID, target.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":             target.ID,
			"username":       target.Username,
			"about_me":       target.AboutMe,
			"avatar":         target.AvatarURL(128),
			"last_seen":      target.LastSeen,
			"createdAt":      target.CreatedAt,
			"isOwnProfile":   claims.UserID == target.ID,
			"isFollowing":    isFollowing,
			"postsCount":     stats.PostsCount,
			"followersCount": stats.FollowersCount,
			"followingCount": stats.FollowingCount,
		},
	})
}

func (uc *UserController) SearchUsers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	page, pageSize := utils.PageParams(c)

	users, total, err := uc.Users.Search(c.Request.Context(), query, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error searching users"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    summarizeAll(users),
		Pagination: &PaginationMeta{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  total,
			TotalPages:  utils.TotalPages(total, pageSize),
			HasNext:     int64(page*pageSize) < total,
			HasPrev:     page > 1 && total > 0,
		},
	})
}

func (uc *UserController) GetSuggestedUsers(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	users, err := uc.Users.Suggested(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching suggested users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"suggestedUsers": summarizeAll(users),
	})
}
