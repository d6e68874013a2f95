package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/models"
	"github.com/microblog-hq/api-go/repository"
	"github.com/microblog-hq/api-go/utils"
	"gorm.io/gorm"
)

type PostController struct {
	Users repository.UserRepository
	Posts repository.PostRepository
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{
		Users: repository.NewUserRepository(db),
		Posts: repository.NewPostRepository(db),
	}
}

type CreatePostRequest struct {
	Body string `json:"body" binding:"required,max=140"`
}

// CreatePost godoc
// @Summary Create a post
// @Description Creates a short text post owned by the authenticated user
// @Tags posts
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		Body:      req.Body,
		UserID:    claims.UserID,
		CreatedAt: time.Now().UTC(),
	}

	if err := pc.Posts.Create(c.Request.Context(), &post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"post": gin.H{
			"id":         post.ID,
			"body":       post.Body,
			"hashtags":   post.Hashtags,
			"created_at": post.CreatedAt,
			"user_id":    post.UserID,
		},
	})
}

// GetUserPosts returns one user's posts, newest first.
func (pc *PostController) GetUserPosts(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := pc.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	page, pageSize := utils.PageParams(c)
	result, err := pc.Posts.ByUser(ctx, user.ID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching posts"})
		return
	}

	respondPostPage(c, result, page, pageSize)
}

// Explore lists everyone's posts, optionally filtered by hashtag.
func (pc *PostController) Explore(c *gin.Context) {
	page, pageSize := utils.PageParams(c)

	result, err := pc.Posts.Explore(c.Request.Context(), c.Query("hashtag"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching posts"})
		return
	}

	respondPostPage(c, result, page, pageSize)
}

func respondPostPage(c *gin.Context, result *repository.PostPage, page, pageSize int) {
	posts := make([]gin.H, len(result.Posts))
	for i, p := range result.Posts {
		posts[i] = gin.H{
			"id":         p.ID,
			"body":       p.Body,
			"hashtags":   p.Hashtags,
			"created_at": p.CreatedAt,
			"author":     summarize(&p.User),
		}
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    posts,
		Pagination: &PaginationMeta{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalItems:  result.Total,
			TotalPages:  utils.TotalPages(result.Total, pageSize),
			HasNext:     result.HasNext,
			HasPrev:     result.HasPrev,
		},
	})
}
