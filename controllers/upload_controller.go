package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microblog-hq/api-go/config"
	"github.com/microblog-hq/api-go/models"
	"github.com/microblog-hq/api-go/utils"
	"gorm.io/gorm"
)

// UploadController handles avatar uploads against an S3-compatible object
// store. Clients upload to a temporary key via a presigned URL, then confirm
// to move the object to its permanent location.
type UploadController struct {
	DB      *gorm.DB
	Client  *s3.Client
	Storage *config.StorageConfig
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type AvatarConfirmRequest struct {
	TempKey string `json:"tempKey" binding:"required"`
}

const maxAvatarSize = 5 * 1024 * 1024

func NewUploadController(db *gorm.DB, storage *config.StorageConfig) *UploadController {
	uc := &UploadController{DB: db, Storage: storage}
	if storage == nil {
		return uc
	}

	uc.Client = s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", storage.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			storage.AccessKeyID,
			storage.SecretAccessKey,
			"",
		),
		Region: storage.Region,
	})
	return uc
}

// GetAvatarUploadURL issues a presigned PUT URL for a temporary avatar key.
func (uc *UploadController) GetAvatarUploadURL(c *gin.Context) {
	if uc.Client == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Object storage is not configured"})
		return
	}

	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !strings.HasPrefix(req.ContentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar must be an image"})
		return
	}
	if req.FileSize > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds limit"})
		return
	}

	tempKey := fmt.Sprintf("temp/avatars/%s%s", uuid.New().String(), filepath.Ext(req.FileName))

	uploadURL, err := uc.presignPut(c.Request.Context(), tempKey, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: gin.H{
			"uploadUrl": uploadURL,
			"tempKey":   tempKey,
			"expiresIn": 3600,
		},
	})
}

// ConfirmAvatarUpload moves the temp object to its permanent key and records
// the public URL on the user.
func (uc *UploadController) ConfirmAvatarUpload(c *gin.Context) {
	if uc.Client == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Object storage is not configured"})
		return
	}

	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req AvatarConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !strings.HasPrefix(req.TempKey, "temp/avatars/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid temp key format"})
		return
	}

	permanentKey := fmt.Sprintf("avatars/%d/%s%s",
		claims.UserID, uuid.New().String(), filepath.Ext(req.TempKey))

	if err := uc.moveObject(c.Request.Context(), req.TempKey, permanentKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm avatar upload"})
		return
	}

	avatarURL := fmt.Sprintf("%s/%s", uc.Storage.PublicURL, permanentKey)
	if err := uc.DB.Model(&models.User{}).Where("id = ?", claims.UserID).
		Update("avatar", avatarURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save avatar"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    gin.H{"avatar": avatarURL},
		Message: "Avatar updated successfully",
	})
}

func (uc *UploadController) presignPut(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.Storage.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.Client)
	req, err := presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (uc *UploadController) moveObject(ctx context.Context, sourceKey, destKey string) error {
	_, err := uc.Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(uc.Storage.BucketName),
		CopySource: aws.String(fmt.Sprintf("%s/%s", uc.Storage.BucketName, sourceKey)),
		Key:        aws.String(destKey),
	})
	if err != nil {
		return err
	}

	_, err = uc.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(uc.Storage.BucketName),
		Key:    aws.String(sourceKey),
	})
	return err
}
