package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maroccart/backend/internal/application/media"
	"github.com/maroccart/backend/internal/interfaces/http/dto"
)

const (
	imageField  = "image"
	imagesField = "images"
)

// UploadHandler stores product images
type UploadHandler struct {
	BaseHandler
	uploadService *media.UploadService
	maxSize       int64
}

// NewUploadHandler creates a new UploadHandler. maxSize bounds how much of
// a part is read into memory; the service enforces the real limit.
func NewUploadHandler(uploadService *media.UploadService, maxSize int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxSize: maxSize}
}

// UploadResponse wraps the stored image(s)
type UploadResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// DeleteResponse acknowledges an image removal
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UploadImage handles POST /api/upload/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			h.Error(c, dto.ErrCodeValidation, "No image provided")
			return
		}
		h.BadRequest(c, "Invalid multipart form")
		return
	}

	file, err := h.read(header)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	img, err := h.uploadService.Upload(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UploadResponse{Success: true, Data: img})
}

// UploadImages handles POST /api/upload/images
func (h *UploadHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.Error(c, dto.ErrCodeValidation, "No images provided")
		return
	}

	headers := form.File[imagesField]
	files := make([]*media.File, 0, len(headers))
	for _, header := range headers {
		file, err := h.read(header)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		files = append(files, file)
	}

	images, err := h.uploadService.UploadMany(c.Request.Context(), files)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UploadResponse{Success: true, Data: images})
}

// Delete handles DELETE /api/upload/:filename
func (h *UploadHandler) Delete(c *gin.Context) {
	if err := h.uploadService.Delete(c.Request.Context(), c.Param("filename")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DeleteResponse{Success: true, Message: "Image deleted successfully"})
}

// read loads at most maxSize+1 bytes so oversized parts still fail the size check
func (h *UploadHandler) read(header *multipart.FileHeader) (*media.File, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s", header.Filename)
	}
	defer f.Close()

	r := io.Reader(f)
	if h.maxSize > 0 {
		r = io.LimitReader(f, h.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s", header.Filename)
	}
	return &media.File{Name: header.Filename, Size: header.Size, Data: data}, nil
}
