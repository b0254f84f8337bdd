package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/services"
	"github.com/mitrahse/vendorhr-api/internal/storage"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
)

type AttachmentHandler struct {
	attachmentService *services.AttachmentService
}

func NewAttachmentHandler(attachmentService *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// @Summary Upload employee document
// @Description PDF, JPEG or PNG up to 10MB
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Param file formData file true "Document"
// @Param category formData string false "documents|certificates" default(documents)
// @Success 201 {object} models.Attachment
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users/{id}/files [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file wajib diunggah"})
		return
	}
	if header.Size > storage.MaxFileSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": storage.ErrFileTooLarge.Error()})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file tidak dapat dibaca"})
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(c.Request.Context(), c.Param("tenant"), id, services.UploadInput{
		Category: c.PostForm("category"),
		FileName: header.Filename,
		Body:     file,
	}, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": attachment, "message": "file berhasil diunggah"})
}

// @Summary List employee documents
// @Tags Attachments
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Success 200 {array} models.Attachment
// @Security BearerAuth
// @Router /{tenant}/users/{id}/files [get]
func (h *AttachmentHandler) Index(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	files, err := h.attachmentService.List(c.Request.Context(), c.Param("tenant"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": files})
}

// @Summary List stored files of a category
// @Tags Attachments
// @Produce json
// @Param category path string true "documents, certificates or dashboard"
// @Success 200 {array} storage.Object
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /files/{category} [get]
func (h *AttachmentHandler) StoredFiles(c *gin.Context) {
	objects, err := h.attachmentService.StoredFiles(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": objects})
}

// @Summary Download employee document
// @Tags Attachments
// @Produce octet-stream
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Param file_id path int true "Attachment ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users/{id}/files/{file_id}/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}

	rc, attachment, err := h.attachmentService.Open(c.Request.Context(), c.Param("tenant"), id, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, attachment.FileName))
	streamObject(c, rc, attachment.ContentType, attachment.Size)
}

// @Summary Delete employee document
// @Tags Attachments
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Param file_id path int true "Attachment ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users/{id}/files/{file_id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}
	if err := h.attachmentService.Delete(c.Request.Context(), c.Param("tenant"), id, fileID, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file dihapus"})
}

// streamObject copies a stored object to the response
func streamObject(c *gin.Context, r io.Reader, contentType string, size int64) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, contentType, r, nil)
	if len(c.Errors) > 0 {
		logger.FromContext(c.Request.Context()).Warn("Download interrupted", "error", c.Errors.Last())
	}
}
