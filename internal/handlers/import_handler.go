package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/services"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type ImportHandler struct {
	importService *services.ImportService
}

func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// @Summary Bulk import employees
// @Description Creates employees from a CSV or XLSX sheet; rejected rows are reported with their row number
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/upload-bulk [post]
func (h *ImportHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file wajib diunggah"})
		return
	}

	format, err := services.FormatFromFilename(header.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file tidak dapat dibaca"})
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), c.Param("tenant"), format, file, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d dari %d baris berhasil diimpor", result.Created, result.Total),
		"result":  result,
	})
}

// @Summary Import template
// @Tags Import
// @Produce octet-stream
// @Param tenant path string true "Tenant slug"
// @Param format query string false "csv|xlsx" default(xlsx)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /{tenant}/upload-bulk/template [get]
func (h *ImportHandler) Template(c *gin.Context) {
	format := c.DefaultQuery("format", services.FormatXLSX)
	data, filename, err := h.importService.Template(format)
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, filename, data)
}

// sendFile writes an in-memory download with a type chosen by extension
func sendFile(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentTypeFor(filename), data)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return contentTypeCSV
	case ".xlsx":
		return contentTypeXLSX
	case ".pdf":
		return contentTypePDF
	}
	return "application/octet-stream"
}
