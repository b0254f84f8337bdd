package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/services"
)

type ReportHandler struct {
	exportService *services.ExportService
	reportService *services.ReportService
}

func NewReportHandler(exportService *services.ExportService, reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{exportService: exportService, reportService: reportService}
}

// @Summary Export employees
// @Description Urgency-ordered active employee list with contract status
// @Tags Reports
// @Produce octet-stream
// @Param tenant path string true "Tenant slug"
// @Param format query string false "xlsx|csv|pdf" default(xlsx)
// @Param bucket query string false "Contract bucket filter"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /{tenant}/users/export [get]
func (h *ReportHandler) ExportEmployees(c *gin.Context) {
	data, filename, err := h.exportService.ExportEmployees(c.Request.Context(), c.Param("tenant"),
		c.DefaultQuery("format", services.FormatXLSX), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, filename, data)
}

// @Summary HSE certificate sheet
// @Tags Reports
// @Produce application/pdf
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users/{id}/hse/pdf [get]
func (h *ReportHandler) HSESheet(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	buf, filename, err := h.reportService.GenerateHSEPDF(c.Request.Context(), c.Param("tenant"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendFile(c, filename, buf.Bytes())
}
