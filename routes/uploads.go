package routes

import (
	"errors"
	"net/http"

	"kanban-lite/kanban/database"
	"kanban-lite/kanban/services"

	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(group *gin.RouterGroup, db *database.Database, uploadService services.UploadServiceInterface) {
	group.POST("/upload", func(c *gin.Context) { UploadImages(c, uploadService) })
	group.POST("/upload-logo", func(c *gin.Context) { UploadLogo(c, uploadService) })
	group.POST("/cleanup-images", func(c *gin.Context) { CleanupImages(c, db, uploadService) })
}

func UploadImages(c *gin.Context, uploadService services.UploadServiceInterface) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	// The browser client posts the field as images[]; accept the bare name too.
	files := form.File["images[]"]
	if len(files) == 0 {
		files = form.File["images"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files uploaded"})
		return
	}

	uploaded, err := uploadService.SaveImages(files)
	if err != nil {
		if errors.Is(err, services.ErrNoFilesUploaded) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "files": uploaded})
}

func UploadLogo(c *gin.Context, uploadService services.UploadServiceInterface) {
	header, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No logo file uploaded"})
		return
	}

	uploaded, err := uploadService.SaveLogo(header)
	if err != nil {
		if errors.Is(err, services.ErrFileTooLarge) || errors.Is(err, services.ErrInvalidFileType) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "path": uploaded.Path, "filename": uploaded.Filename})
}

// CleanupImages sweeps orphaned task images. Explicit only; nothing runs
// this on a schedule.
func CleanupImages(c *gin.Context, db *database.Database, uploadService services.UploadServiceInterface) {
	result, err := uploadService.CleanupOrphans(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"deleted_count": result.DeletedCount,
		"deleted_files": result.DeletedFiles,
	})
}
