package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/services"
)

// ScheduledTransactionHandler handles recurring transaction requests.
type ScheduledTransactionHandler struct {
	scheduledService services.ScheduledTransactionServicer
	auditService     services.AuditServicer
	now              func() time.Time
}

// NewScheduledTransactionHandler creates a new ScheduledTransactionHandler.
func NewScheduledTransactionHandler(scheduledService services.ScheduledTransactionServicer, auditService services.AuditServicer) *ScheduledTransactionHandler {
	return &ScheduledTransactionHandler{
		scheduledService: scheduledService,
		auditService:     auditService,
		now:              time.Now,
	}
}

// CreateScheduledTransactionRequest represents the request payload for a new
// schedule. Amount is signed and in miliunits; RepeatInterval is in days.
type CreateScheduledTransactionRequest struct {
	Amount         *int64  `json:"amount" binding:"required"`
	Payee          string  `json:"payee" binding:"required,not_blank,max=200"`
	Notes          *string `json:"notes" binding:"omitempty,max=1000"`
	ScheduledDate  string  `json:"scheduled_date" binding:"required"`
	RepeatInterval *int    `json:"repeat_interval" binding:"omitempty,gt=0"`
	AccountID      string  `json:"account_id" binding:"required,uuid"`
	CategoryID     *string `json:"category_id" binding:"omitempty,uuid"`
}

// CreateScheduledTransaction handles the creation of a new schedule
// @Summary     Create a scheduled transaction
// @Description Create a transaction that materializes on its due date and optionally repeats every repeat_interval days
// @Tags        scheduled-transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateScheduledTransactionRequest true "Schedule details"
// @Success     201 {object} DataResponse[models.ScheduledTransaction] "Schedule created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scheduled-transactions [post]
func (h *ScheduledTransactionHandler) CreateScheduledTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateScheduledTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	scheduledDate, err := parseFlexibleTime(req.ScheduledDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sched, err := h.scheduledService.CreateScheduledTransaction(c.Request.Context(), userID, services.ScheduledTransactionInput{
		Amount:         *req.Amount,
		Payee:          req.Payee,
		Notes:          req.Notes,
		ScheduledDate:  scheduledDate,
		RepeatInterval: req.RepeatInterval,
		AccountID:      req.AccountID,
		CategoryID:     req.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": sched})
}

// ListScheduledTransactions handles listing the user's schedules
// @Summary     List scheduled transactions
// @Description List the user's schedules by next due date. Due schedules may be materialized first.
// @Tags        scheduled-transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} DataResponse[[]models.ScheduledTransaction] "Schedules"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scheduled-transactions [get]
func (h *ScheduledTransactionHandler) ListScheduledTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	schedules, err := h.scheduledService.ListScheduledTransactions(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": schedules})
}

// GetScheduledTransaction handles the retrieval of a specific schedule
// @Summary     Get scheduled transaction by ID
// @Description Get a specific schedule by ID
// @Tags        scheduled-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scheduled transaction ID"
// @Success     200 {object} DataResponse[models.ScheduledTransaction] "Schedule details"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scheduled transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scheduled-transactions/{id} [get]
func (h *ScheduledTransactionHandler) GetScheduledTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scheduledID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	sched, err := h.scheduledService.GetScheduledTransaction(c.Request.Context(), userID, scheduledID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sched})
}

// DeleteScheduledTransaction handles deleting a schedule
// @Summary     Delete scheduled transaction
// @Description Delete a schedule. Transactions it already produced are kept.
// @Tags        scheduled-transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scheduled transaction ID"
// @Success     200 {object} DataResponse[IDResponse] "Deleted schedule ID"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scheduled transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scheduled-transactions/{id} [delete]
func (h *ScheduledTransactionHandler) DeleteScheduledTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	scheduledID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.scheduledService.DeleteScheduledTransaction(c.Request.Context(), userID, scheduledID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": IDResponse{ID: scheduledID}})
}

// Rollover handles an explicit materialization of the user's due schedules
// @Summary     Materialize due schedules
// @Description Turn every due schedule of the user into a transaction and advance it
// @Tags        scheduled-transactions
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} DataResponse[services.RolloverResult] "Rollover summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scheduled-transactions/rollover [post]
func (h *ScheduledTransactionHandler) Rollover(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.scheduledService.RolloverDue(c.Request.Context(), userID, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionRollover, "scheduled_transaction", "", c.ClientIP(),
		map[string]interface{}{"processed": result.Processed, "failed": result.Failed, "skipped": result.Skipped})

	c.JSON(http.StatusOK, gin.H{"data": result})
}
