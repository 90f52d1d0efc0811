package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backend/internal/logger"
	"backend/internal/middleware"
	"backend/internal/storage"
)

type presignUploadRequest struct {
	Filename string `json:"filename" binding:"required"`
	Folder   string `json:"folder"`
}

const maxUploadBytes = 10 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

func uploadFolder(requested string) string {
	switch requested {
	case "products", "banners", "logos", "videos":
		return requested
	default:
		return "uploads"
	}
}

// UploadFile receives a multipart file and stores it in the bucket.
// Keys are prefixed with the tenant id so stores never collide.
func UploadFile(spaces *storage.Spaces) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "no file uploaded")
			return
		}
		defer file.Close()

		if header.Size > maxUploadBytes {
			respondWithError(c, http.StatusBadRequest, "file too large, limit is 10MB")
			return
		}

		contentType := header.Header.Get("Content-Type")
		if !allowedUploadTypes[contentType] {
			respondWithError(c, http.StatusBadRequest, "unsupported file type")
			return
		}

		scope := middleware.Scope(c)
		folder := scope.TenantID().Hex() + "/" + uploadFolder(c.PostForm("folder"))
		key := storage.ObjectKey(folder, header.Filename, time.Now())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		publicURL, err := spaces.Upload(ctx, key, file, header.Size, contentType)
		if err != nil {
			logger.L().Error("upload failed", zap.String("key", key), zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "upload failed")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"url": publicURL,
			"key": key,
		})
	}
}

// PresignUpload hands the browser a short-lived PUT URL so large media
// bypasses the API server.
func PresignUpload(spaces *storage.Spaces) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req presignUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		scope := middleware.Scope(c)
		folder := scope.TenantID().Hex() + "/" + uploadFolder(strings.TrimSpace(req.Folder))
		key := storage.ObjectKey(folder, req.Filename, time.Now())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		uploadURL, err := spaces.PresignUpload(ctx, key)
		if err != nil {
			logger.L().Error("presign failed", zap.String("key", key), zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "could not presign upload")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"uploadUrl": uploadURL,
			"publicUrl": spaces.PublicURL(key),
			"key":       key,
		})
	}
}
