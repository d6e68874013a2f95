package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/controllers"
)

func SetupUserRoutes(rg *gin.RouterGroup, uc *controllers.UserController) {
	rg.GET("/users/:username", uc.GetUserProfile)
	rg.GET("/search/users", uc.SearchUsers)
	rg.GET("/suggested-users", uc.GetSuggestedUsers)
}
