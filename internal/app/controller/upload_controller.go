package controller

import (
	"net/http"

	apperrors "github.com/bazaarhq/bazaar-backend/internal/errors"
	"github.com/bazaarhq/bazaar-backend/internal/middleware"
	"github.com/bazaarhq/bazaar-backend/internal/storage"
	"github.com/gin-gonic/gin"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required"`
}

// GeneratePresignedURL issues a short-lived direct-upload URL
// POST /api/v1/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename, content type, folder and file size are required")
		return
	}

	if err := storage.ValidateFolder(req.Folder); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown upload folder")
		return
	}
	if err := storage.ValidateContentType(req.ContentType); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}
	if err := storage.ValidateFileSize(req.FileSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Files must be 10 MB or smaller")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, req.Folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   req.Folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Could not prepare the upload")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"folder": req.Folder,
		"key":    response.Key,
	})
	c.JSON(http.StatusOK, response)
}
