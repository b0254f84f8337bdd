package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func dashboardResponses(items []models.DashboardContent) []models.DashboardContentResponse {
	out := make([]models.DashboardContentResponse, 0, len(items))
	for i := range items {
		out = append(out, items[i].ToResponse())
	}
	return out
}

// @Summary Public dashboard content
// @Description Published items ordered by sort_order
// @Tags Dashboard
// @Produce json
// @Success 200 {array} models.DashboardContentResponse
// @Router /dashboard/api/data [get]
func (h *DashboardHandler) Index(c *gin.Context) {
	items, err := h.dashboardService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dashboardResponses(items)})
}

// @Summary All dashboard content
// @Tags Dashboard
// @Produce json
// @Success 200 {array} models.DashboardContentResponse
// @Security BearerAuth
// @Router /dashboard/api/data/all [get]
func (h *DashboardHandler) All(c *gin.Context) {
	items, err := h.dashboardService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dashboardResponses(items)})
}

// @Summary Create dashboard content
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body services.DashboardInput true "Content"
// @Success 201 {object} models.DashboardContentResponse
// @Security BearerAuth
// @Router /dashboard/api/data [post]
func (h *DashboardHandler) Create(c *gin.Context) {
	var req services.DashboardInput
	if !bindPayload(c, "content", &req) {
		return
	}
	content, err := h.dashboardService.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": content.ToResponse()})
}

// @Summary Update dashboard content
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param id path int true "Content ID"
// @Param request body services.DashboardInput true "Content"
// @Success 200 {object} models.DashboardContentResponse
// @Security BearerAuth
// @Router /dashboard/api/data/{id} [put]
func (h *DashboardHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.DashboardInput
	if !bindPayload(c, "content", &req) {
		return
	}
	content, err := h.dashboardService.Update(c.Request.Context(), id, req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": content.ToResponse()})
}

// @Summary Delete dashboard content
// @Tags Dashboard
// @Param id path int true "Content ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /dashboard/api/data/{id} [delete]
func (h *DashboardHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.dashboardService.Delete(c.Request.Context(), id, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "konten dihapus"})
}

// @Summary Upload dashboard image
// @Description JPEG or PNG; a 320x180 thumbnail is stored alongside
// @Tags Dashboard
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Content ID"
// @Param file formData file true "Image"
// @Success 200 {object} models.DashboardContentResponse
// @Security BearerAuth
// @Router /dashboard/api/data/{id}/image [post]
func (h *DashboardHandler) UploadImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gambar wajib diunggah"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file tidak dapat dibaca"})
		return
	}
	defer file.Close()

	content, err := h.dashboardService.UploadImage(c.Request.Context(), id, header.Filename, file, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": content.ToResponse(), "message": "gambar berhasil diunggah"})
}

// @Summary Dashboard image
// @Tags Dashboard
// @Produce image/jpeg
// @Produce image/png
// @Param id path int true "Content ID"
// @Param size query string false "thumb for the thumbnail"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /dashboard/api/data/{id}/image [get]
func (h *DashboardHandler) Image(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rc, obj, err := h.dashboardService.OpenImage(c.Request.Context(), id, c.Query("size") == "thumb")
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=3600")
	streamObject(c, rc, obj.ContentType, obj.Size)
}
