package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/controllers"
)

func SetupPostRoutes(rg *gin.RouterGroup, pc *controllers.PostController) {
	rg.POST("/posts", pc.CreatePost)
	rg.GET("/users/:username/posts", pc.GetUserPosts)
	rg.GET("/explore", pc.Explore)
}
