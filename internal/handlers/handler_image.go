package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sitecrew/daily_report_app/internal/middleware"
)

const (
	maxImageSize  = 10 << 20 // 10 MB
	maxBatchFiles = 10
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// imageHandler stores uploaded site photos on local disk.
type imageHandler struct {
	uploadDir string
}

func newImageHandler(uploadDir string) *imageHandler {
	return &imageHandler{uploadDir: uploadDir}
}

// registerImageRoutes registers image upload routes.
func registerImageRoutes(rg *gin.RouterGroup, uploadDir string) {
	h := newImageHandler(uploadDir)

	images := rg.Group("/images")
	{
		images.POST("/upload", h.uploadImage)
		images.POST("/upload-multiple", h.uploadImages)
	}
}

// storeImage validates one multipart file and writes it under the upload dir
// with a uuid-suffixed name. Returns the public path.
func (h *imageHandler) storeImage(c *gin.Context, fileHeaderName string) (string, error) {
	file, err := c.FormFile(fileHeaderName)
	if err != nil {
		return "", fmt.Errorf("no file in field %q: %w", fileHeaderName, err)
	}
	return h.storeFileHeader(c, file.Filename, file.Size, func(dst string) error {
		return c.SaveUploadedFile(file, dst)
	})
}

func (h *imageHandler) storeFileHeader(c *gin.Context, filename string, size int64, save func(dst string) error) (string, error) {
	if size > maxImageSize {
		return "", fmt.Errorf("file %q exceeds the 10 MB limit", filename)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("file type %q is not allowed", ext)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stored := fmt.Sprintf("%s_%s%s", sanitizeFilename(base), uuid.NewString(), ext)
	if err := save(filepath.Join(h.uploadDir, stored)); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return "/uploads/" + stored, nil
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}

// uploadImage godoc
// @Summary Upload a single image
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file (max 10 MB)"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string "Missing or invalid file"
// @Security BearerAuth
// @Router /images/upload [post]
func (h *imageHandler) uploadImage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	path, err := h.storeImage(c, "image")
	if err != nil {
		logger.Warn("Image upload rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": path})
}

// uploadImages godoc
// @Summary Upload multiple images
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Image files (max 10, each max 10 MB)"
// @Success 201 {object} map[string][]string
// @Failure 400 {object} map[string]string "Missing or invalid files"
// @Security BearerAuth
// @Router /images/upload-multiple [post]
func (h *imageHandler) uploadImages(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files in field \"images\""})
		return
	}
	if len(files) > maxBatchFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("At most %d files per upload", maxBatchFiles)})
		return
	}

	paths := make([]string, 0, len(files))
	for _, file := range files {
		path, err := h.storeFileHeader(c, file.Filename, file.Size, func(dst string) error {
			return c.SaveUploadedFile(file, dst)
		})
		if err != nil {
			logger.Warn("Image upload rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		paths = append(paths, path)
	}

	c.JSON(http.StatusCreated, gin.H{"paths": paths})
}
