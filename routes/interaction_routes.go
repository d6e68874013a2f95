package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/controllers"
)

func SetupInteractionRoutes(rg *gin.RouterGroup, ic *controllers.InteractionController) {
	rg.POST("/users/:username/follow", ic.FollowUser)
	rg.DELETE("/users/:username/follow", ic.UnfollowUser)
	rg.GET("/users/:username/followers", ic.GetUserFollowers)
	rg.GET("/users/:username/following", ic.GetUserFollowing)
}
