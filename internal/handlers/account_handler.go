package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moneta/internal/config"
	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService  services.AccountServicer
	currencyService services.CurrencyServicer
	snapshotService services.SnapshotServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, currencyService services.CurrencyServicer, snapshotService services.SnapshotServicer) *AccountHandler {
	return &AccountHandler{
		accountService:  accountService,
		currencyService: currencyService,
		snapshotService: snapshotService,
	}
}

// CreateAccountRequest represents the request payload for creating an account
type CreateAccountRequest struct {
	Name          string             `json:"name" binding:"required,max=255"`
	Type          models.AccountType `json:"type" binding:"required,account_type"`
	Description   string             `json:"description" binding:"max=500"`
	Currency      string             `json:"currency" binding:"omitempty,iso4217"`
	Broker        string             `json:"broker" binding:"max=100"`
	AccountNumber string             `json:"account_number" binding:"max=64"`
}

// UpdateAccountRequest represents the request payload for updating an account
type UpdateAccountRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=500"`
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create a new bank or broker account. When the currency is
// @Description omitted the server's configured default currency is used. The
// @Description account's currency receives an initial zero snapshot so later
// @Description snapshots always have a baseline to build on.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} models.Account "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	code := req.Currency
	if code == "" {
		code = config.Get().DefaultCurrency
	}
	currency, err := h.currencyService.GetByCode(code)
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(userID, req.Name, req.Description, req.Type, currency.ID, req.Broker, req.AccountNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.snapshotService.HandleNewAccount(account); err != nil {
		// The account exists; a failed seed snapshot is recoverable via recompute.
		logger.Get().Errorw("failed to seed account snapshot",
			"account_id", account.ID, "error", err.Error())
	}

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetAccounts handles the retrieval of the user's accounts
// @Summary     Get user accounts
// @Description Get a paginated list of the authenticated user's accounts
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.accountService.GetUserAccounts(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccount handles the retrieval of a single account
// @Summary     Get account by ID
// @Description Get a specific account owned by the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Success     200 {object} models.Account "Account details"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
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

	account, err := h.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles updating an account's name and description
// @Summary     Update account
// @Description Update an account's name and description
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Account ID"
// @Param       request body UpdateAccountRequest true "Fields to update"
// @Success     200 {object} models.Account "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [put]
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

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(userID, accountID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeactivateAccount handles deactivating an account
// @Summary     Deactivate account
// @Description Deactivate an account. Its movements and snapshots are kept.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Account ID"
// @Success     200 {object} MessageResponse "Account deactivated"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeactivateAccount(c *gin.Context) {
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

	if err := h.accountService.DeactivateAccount(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated successfully"})
}

// ListCurrencies handles the retrieval of supported currencies
// @Summary     List currencies
// @Description Get all supported currencies
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Currency "Supported currencies"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /currencies [get]
func (h *AccountHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.currencyService.List()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}
