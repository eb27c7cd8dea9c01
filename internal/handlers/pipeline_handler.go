package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/services"
)

// PipelineHandler handles scheduler-facing requests.
type PipelineHandler struct {
	scheduledService services.ScheduledTransactionServicer
	auditService     services.AuditServicer
	now              func() time.Time
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(scheduledService services.ScheduledTransactionServicer, auditService services.AuditServicer) *PipelineHandler {
	return &PipelineHandler{scheduledService: scheduledService, auditService: auditService, now: time.Now}
}

// RolloverAllRequest represents the optional payload of a pipeline rollover.
// An omitted as_of means now.
type RolloverAllRequest struct {
	AsOf *time.Time `json:"as_of"`
}

// RolloverAll handles materializing the due schedules of every user.
// @Summary     Materialize all due schedules
// @Description Materialize the due schedules of every user (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key  header   string                                  true  "Pipeline API key"
// @Param       request    body     RolloverAllRequest                      false "Rollover parameters"
// @Success     200        {object} DataResponse[services.RolloverResult]   "Rollover summary"
// @Failure     400        {object} ErrorResponse                           "Invalid input"
// @Failure     401        {object} ErrorResponse                           "Invalid API key"
// @Failure     503        {object} ErrorResponse                           "Pipeline not configured"
// @Router      /pipeline/rollover [post]
func (h *PipelineHandler) RolloverAll(c *gin.Context) {
	var req RolloverAllRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	asOf := h.now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	result, err := h.scheduledService.RolloverAllDue(c.Request.Context(), asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("pipeline", services.AuditActionRolloverAll, "scheduled_transaction", "", c.ClientIP(),
		map[string]interface{}{"as_of": asOf.UTC(), "processed": result.Processed, "failed": result.Failed, "skipped": result.Skipped})

	c.JSON(http.StatusOK, gin.H{"data": result})
}
