package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/services"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func listParams(c *gin.Context) services.EmployeeListParams {
	return services.EmployeeListParams{
		Bucket: c.Query("bucket"),
		Search: c.Query("search_term"),
	}
}

// @Summary List employees
// @Description Active employees of a vendor company, ordered by contract urgency
// @Tags Employees
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param bucket query string false "expired|due|call2|call1|future|unknown"
// @Param search_term query string false "Search by name, number or position"
// @Success 200 {object} services.EmployeeList
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users [get]
func (h *EmployeeHandler) Index(c *gin.Context) {
	list, err := h.employeeService.List(c.Request.Context(), c.Param("tenant"), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary List non-active employees
// @Tags Employees
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Success 200 {object} services.EmployeeList
// @Security BearerAuth
// @Router /{tenant}/na [get]
func (h *EmployeeHandler) NonActive(c *gin.Context) {
	list, err := h.employeeService.ListNonActive(c.Request.Context(), c.Param("tenant"), listParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get employee
// @Tags Employees
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Success 200 {object} models.EmployeeResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users/{id} [get]
func (h *EmployeeHandler) Show(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	employee, err := h.employeeService.Get(c.Request.Context(), c.Param("tenant"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": employee.ToResponse(h.employeeService.Now())})
}

// @Summary Create employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param request body services.EmployeeInput true "Employee"
// @Success 201 {object} models.EmployeeResponse
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req services.EmployeeInput
	if !bindPayload(c, "karyawan", &req) {
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), c.Param("tenant"), req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"data":    employee.ToResponse(h.employeeService.Now()),
		"message": "karyawan berhasil ditambahkan",
	})
}

// @Summary Update employee
// @Description Omitted fields are kept; contract changes are recorded in history
// @Tags Employees
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Param request body services.EmployeeInput true "Employee"
// @Success 200 {object} models.EmployeeResponse
// @Security BearerAuth
// @Router /{tenant}/users/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.EmployeeInput
	if !bindPayload(c, "karyawan", &req) {
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), c.Param("tenant"), id, req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    employee.ToResponse(h.employeeService.Now()),
		"message": "data karyawan diperbarui",
	})
}

// @Summary Delete employee
// @Tags Employees
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), c.Param("tenant"), id, actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "karyawan dihapus"})
}

type StatusChangeRequest struct {
	Reason string `json:"alasan"`
}

// @Summary Deactivate employee
// @Description Moves an active employee to the NA list
// @Tags Employees
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Param request body StatusChangeRequest false "Reason"
// @Success 200 {object} models.EmployeeResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users/{id}/deactivate [post]
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.employeeService.Deactivate, "karyawan dipindahkan ke daftar NA")
}

// @Summary Reactivate employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Param request body StatusChangeRequest false "Reason"
// @Success 200 {object} models.EmployeeResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /{tenant}/users/{id}/reactivate [post]
func (h *EmployeeHandler) Reactivate(c *gin.Context) {
	h.changeStatus(c, h.employeeService.Reactivate, "karyawan diaktifkan kembali")
}

type transitionFunc func(ctx context.Context, tenant string, id uint, reason string, actor services.Actor) (*models.Employee, error)

func (h *EmployeeHandler) changeStatus(c *gin.Context, transition transitionFunc, message string) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req StatusChangeRequest
	_ = c.ShouldBindJSON(&req)

	employee, err := transition(c.Request.Context(), c.Param("tenant"), id, req.Reason, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": employee.ToResponse(h.employeeService.Now()), "message": message})
}

// @Summary Get HSE data
// @Description HSE certification fields with the expiry status of each certificate
// @Tags HSE
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Success 200 {object} models.HSEResponse
// @Security BearerAuth
// @Router /{tenant}/users/{id}/hse [get]
func (h *EmployeeHandler) ShowHSE(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	employee, err := h.employeeService.Get(c.Request.Context(), c.Param("tenant"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"employee_id":   employee.ID,
		"nama_karyawan": employee.Name,
		"data":          employee.ToHSEResponse(h.employeeService.Now()),
	})
}

// @Summary Update HSE data
// @Description Changes are recorded in the HSE history
// @Tags HSE
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Param request body services.HSEInput true "HSE fields"
// @Success 200 {object} models.HSEResponse
// @Security BearerAuth
// @Router /{tenant}/users/{id}/hse [put]
func (h *EmployeeHandler) UpdateHSE(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.HSEInput
	if !bindPayload(c, "hse", &req) {
		return
	}

	employee, err := h.employeeService.UpdateHSE(c.Request.Context(), c.Param("tenant"), id, req, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    employee.ToHSEResponse(h.employeeService.Now()),
		"message": "data HSE diperbarui",
	})
}

// @Summary Employee history
// @Tags Employees
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Param id path int true "Employee ID"
// @Param domain query string false "contract|hse"
// @Success 200 {array} models.HistoryResponse
// @Security BearerAuth
// @Router /{tenant}/users/{id}/history [get]
func (h *EmployeeHandler) History(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entries, err := h.employeeService.History(c.Request.Context(), c.Param("tenant"), id, c.Query("domain"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// @Summary Contract summary
// @Description Number of active employees per contract bucket
// @Tags Employees
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Success 200 {object} contractstatus.Summary
// @Security BearerAuth
// @Router /{tenant}/contracts/summary [get]
func (h *EmployeeHandler) ContractSummary(c *gin.Context) {
	summary, err := h.employeeService.ContractSummary(c.Request.Context(), c.Param("tenant"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "needs_attention": summary.NeedsAttention()})
}

// @Summary Expiring HSE certificates
// @Tags HSE
// @Produce json
// @Param tenant path string true "Tenant slug"
// @Success 200 {array} services.ExpiringCertificate
// @Security BearerAuth
// @Router /{tenant}/hse/expiring [get]
func (h *EmployeeHandler) ExpiringHSE(c *gin.Context) {
	certs, err := h.employeeService.ExpiringHSE(c.Request.Context(), c.Param("tenant"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": certs, "total": len(certs)})
}
