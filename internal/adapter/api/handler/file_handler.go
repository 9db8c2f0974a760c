package handler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"servicemarket/internal/infrastructure/storage"
	"servicemarket/pkg/errors"
	"servicemarket/pkg/logger"
	"servicemarket/pkg/response"
)

const maxUploadSize = 5 * 1024 * 1024

var allowedFolders = map[string]bool{
	"reviews":   true,
	"portfolio": true,
	"profiles":  true,
}

var folderPattern = regexp.MustCompile(`[^a-z0-9-]+`)

type FileHandler struct {
	uploader    storage.Uploader
	maxFileSize int64
}

var fileHandler *FileHandler

// NewFileHandler accepts a nil uploader; uploads then answer 503.
func NewFileHandler(uploader storage.Uploader) *FileHandler {
	return &FileHandler{
		uploader:    uploader,
		maxFileSize: maxUploadSize,
	}
}

func SetupFileHandler(uploader storage.Uploader) {
	fileHandler = NewFileHandler(uploader)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

func (h *FileHandler) UploadFile(c echo.Context) error {
	if h.uploader == nil {
		return response.Error(c, errors.Unavailable("File uploads are not configured"))
	}
	uid, err := currentUID(c)
	if err != nil {
		return response.Error(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}
	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	contentType := file.Header.Get("Content-Type")
	if _, ok := storage.AllowedImageTypes[contentType]; !ok {
		return response.Error(c, errors.BadRequest("Only JPEG, PNG and WEBP images are accepted", nil))
	}

	folder := sanitizeFolderName(c.FormValue("folder"))
	if !allowedFolders[folder] {
		return response.Error(c, errors.BadRequest("Unknown upload folder", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, err := h.uploader.UploadFile(c.Request().Context(), src, contentType, folder+"/"+uid)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	logger.Debug("user %s uploaded %s (%d bytes) to %s", uid, file.Filename, file.Size, url)
	return response.Created(c, map[string]interface{}{
		"url":          url,
		"content_type": contentType,
		"size":         file.Size,
	})
}

func sanitizeFolderName(folder string) string {
	folder = strings.ToLower(strings.TrimSpace(folder))
	if folder == "" {
		return "reviews"
	}
	return folderPattern.ReplaceAllString(folder, "")
}
