package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/controllers"
)

func SetupUploadRoutes(rg *gin.RouterGroup, uc *controllers.UploadController) {
	rg.POST("/uploads/avatar", uc.GetAvatarUploadURL)
	rg.POST("/uploads/avatar/confirm", uc.ConfirmAvatarUpload)
}
