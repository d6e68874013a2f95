package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/models"
	"github.com/microblog-hq/api-go/repository"
	"github.com/microblog-hq/api-go/utils"
	"gorm.io/gorm"
)

type InteractionController struct {
	Users   repository.UserRepository
	Follows repository.FollowRepository
}

func NewInteractionController(db *gorm.DB) *InteractionController {
	return &InteractionController{
		Users:   repository.NewUserRepository(db),
		Follows: repository.NewFollowRepository(db),
	}
}

// FollowUser godoc
// @Summary Follow a user
// @Description Follows the target user; repeating the call has no effect
// @Tags interactions
// @Produce json
// @Param username path string true "Username to follow"
// @Success 200 {object} map[string]interface{}
// @Router /users/{username}/follow [post]
func (ic *InteractionController) FollowUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	ctx := c.Request.Context()
	target, err := ic.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// The business rule lives here; the graph itself just ignores self-loops.
	if claims.UserID == target.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	if err := ic.Follows.Follow(ctx, claims.UserID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": true,
		"message":   "Successfully followed user",
	})
}

// UnfollowUser removes the follow edge; unfollowing someone not followed is
// a no-op.
func (ic *InteractionController) UnfollowUser(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	ctx := c.Request.Context()
	target, err := ic.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := ic.Follows.Unfollow(ctx, claims.UserID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": false,
		"message":   "Successfully unfollowed user",
	})
}

// GetUserFollowers godoc
// @Summary Get a user's followers
// @Description Returns a paginated list of accounts following the user
// @Tags interactions
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]interface{}
// @Router /users/{username}/followers [get]
func (ic *InteractionController) GetUserFollowers(c *gin.Context) {
	ic.adjacency(c, ic.Follows.Followers)
}

func (ic *InteractionController) GetUserFollowing(c *gin.Context) {
	ic.adjacency(c, ic.Follows.Following)
}

func (ic *InteractionController) adjacency(c *gin.Context, lookup func(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error)) {
	ctx := c.Request.Context()
	target, err := ic.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	page, pageSize := utils.PageParams(c)
	users, total, err := lookup(ctx, target.ID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
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
