package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/repository"
	"github.com/microblog-hq/api-go/utils"
	"gorm.io/gorm"
)

type FeedController struct {
	Posts repository.PostRepository
}

func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{Posts: repository.NewPostRepository(db)}
}

// GetFeed godoc
// @Summary Get the user's timeline
// @Description Returns the user's own posts merged with posts from followed users, newest first
// @Tags feed
// @Produce json
// @Param page query integer false "Page number (default: 1)"
// @Param pageSize query integer false "Items per page (default: 20, max: 50)"
// @Success 200 {object} map[string]interface{}
// @Router /feed [get]
func (fc *FeedController) GetFeed(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	page, pageSize := utils.PageParams(c)

	result, err := fc.Posts.Feed(c.Request.Context(), claims.UserID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching feed"})
		return
	}

	respondPostPage(c, result, page, pageSize)
}
