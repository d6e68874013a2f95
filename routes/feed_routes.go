package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/controllers"
)

func SetupFeedRoutes(rg *gin.RouterGroup, fc *controllers.FeedController) {
	rg.GET("/feed", fc.GetFeed)
}
