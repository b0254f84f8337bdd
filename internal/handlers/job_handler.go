package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitrahse/vendorhr-api/internal/services"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Worker counters and the schedule of each registered job
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	status := h.jobService.GetStatus()
	c.JSON(http.StatusOK, status)
}

// RunReminder runs the reminder digest outside its schedule
// @Summary Run reminder digest now
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /jobs/reminder/run [post]
func (h *JobHandler) RunReminder(c *gin.Context) {
	if err := h.jobService.RunReminder(); err != nil {
		logger.FromContext(c.Request.Context()).Error("Manual reminder run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pengingat gagal dikirim"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pengingat diproses"})
}
