package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "budgetly/internal/errors"
	"budgetly/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// AccountRequest represents the request payload for creating or replacing an
// account. Budget is in whole display units; an omitted budget is stored as 0.
type AccountRequest struct {
	Name    string  `json:"name" binding:"required,not_blank,max=100"`
	PlaidID *string `json:"plaid_id" binding:"omitempty,max=100"`
	Budget  *int64  `json:"budget"`
}

// SetBudgetRequest represents the request payload for changing a budget.
type SetBudgetRequest struct {
	Budget *int64 `json:"budget" binding:"required"`
}

// ListAccounts returns the user's accounts with their remaining budgets
// @Summary     List accounts with budgets
// @Description List the authenticated user's accounts. Zero budgets and zero remaining budgets are reported as null.
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} DataResponse[[]services.AccountBudget] "Accounts with remaining budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccountsWithBudget(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new account for the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AccountRequest true "Account details"
// @Success     201 {object} DataResponse[models.Account] "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), userID, services.AccountInput{
		Name:    req.Name,
		PlaidID: req.PlaidID,
		Budget:  req.Budget,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreateAccount, "account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": account.Name, "budget": account.BudgetOrZero()})

	c.JSON(http.StatusCreated, gin.H{"data": account})
}

// GetAccount handles the retrieval of a specific account for a user
// @Summary     Get account by ID
// @Description Get a specific account by ID for the authenticated user
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} DataResponse[models.Account] "Account details"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

// UpdateAccount handles replacing an account's name and budget.
// @Summary     Update account
// @Description Replace the name and budget of an account. An omitted budget is stored as 0.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body AccountRequest true "Updated account details"
// @Success     200 {object} DataResponse[models.Account] "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input or account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [patch]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), userID, accountID, services.AccountInput{
		Name:    req.Name,
		PlaidID: req.PlaidID,
		Budget:  req.Budget,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdateAccount, "account", accountID, c.ClientIP(),
		map[string]interface{}{"name": account.Name, "budget": account.BudgetOrZero()})

	c.JSON(http.StatusOK, gin.H{"data": account})
}

// SetBudget handles changing only the budget of an account.
// @Summary     Set account budget
// @Description Set the budget of an account in whole display units
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body SetBudgetRequest true "New budget"
// @Success     200 {object} DataResponse[models.Account] "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input or account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/budget [patch]
func (h *AccountHandler) SetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.SetBudget(c.Request.Context(), userID, accountID, *req.Budget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionSetBudget, "account", accountID, c.ClientIP(),
		map[string]interface{}{"budget": *req.Budget})

	c.JSON(http.StatusOK, gin.H{"data": account})
}

// DeleteAccount handles deleting an account with its transactions
// @Summary     Delete account
// @Description Delete an account together with its transactions and scheduled transactions
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} DataResponse[IDResponse] "Deleted account ID"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDeleteAccount, "account", accountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"data": IDResponse{ID: accountID}})
}

// BulkDeleteAccounts handles deleting several accounts at once
// @Summary     Bulk delete accounts
// @Description Delete the listed accounts the user owns. Unknown ids are ignored.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BulkDeleteRequest true "Account IDs"
// @Success     200 {object} BulkDeleteResponse "Deleted account IDs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/bulk-delete [post]
func (h *AccountHandler) BulkDeleteAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deleted, err := h.accountService.BulkDeleteAccounts(c.Request.Context(), userID, req.IDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(deleted) > 0 {
		h.auditService.Log(userID, services.AuditActionBulkDeleteAccounts, "account", "", c.ClientIP(),
			map[string]interface{}{"ids": deleted})
	}

	c.JSON(http.StatusOK, BulkDeleteResponse{Data: idList(deleted)})
}
