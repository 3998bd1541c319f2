package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// MovementHandler handles movement-related requests: cash movements, trades,
// dividends, dividend taxes, and option trades. Every successful mutation
// notifies the snapshot engine with the movement's date so affected snapshots
// are recomputed and cascaded forward.
type MovementHandler struct {
	movementService services.MovementServicer
	currencyService services.CurrencyServicer
	snapshotService services.SnapshotServicer
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementService services.MovementServicer, currencyService services.CurrencyServicer, snapshotService services.SnapshotServicer) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
		currencyService: currencyService,
		snapshotService: snapshotService,
	}
}

// notifySnapshotEngine asks the snapshot engine to recompute from the given
// date. The movement is already stored, so an error here (a missing price,
// for example) is surfaced to the caller; recording the price and invoking
// recompute repairs the snapshots.
func (h *MovementHandler) notifySnapshotEngine(c *gin.Context, accountID uint, date time.Time) {
	if err := h.snapshotService.HandleAccountChange(accountID, date); err != nil {
		respondWithError(c, err)
		c.Abort()
	}
}

// resolveDate parses an optional date string, defaulting to now.
func resolveDate(dateStr *string) (time.Time, error) {
	if dateStr == nil || *dateStr == "" {
		return time.Now().UTC(), nil
	}
	return parseFlexibleTime(*dateStr)
}

// CreateCashMovementRequest represents the request payload for a cash movement.
// Conversions must also carry from_currency and amount_changed.
type CreateCashMovementRequest struct {
	AccountID     uint                    `json:"account_id" binding:"required"`
	Currency      string                  `json:"currency" binding:"required,iso4217"`
	Type          models.CashMovementType `json:"type" binding:"required,cash_movement_type"`
	Amount        decimal.Decimal         `json:"amount" binding:"required"`
	Date          *string                 `json:"date"`
	Description   string                  `json:"description" binding:"max=500"`
	FromCurrency  *string                 `json:"from_currency" binding:"omitempty,iso4217"`
	AmountChanged *decimal.Decimal        `json:"amount_changed"`
}

// CreateCashMovement handles the creation of a cash movement
// @Summary     Create a cash movement
// @Description Record a deposit, withdrawal, fee, interest, conversion, or ACAT transfer
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCashMovementRequest true "Cash movement details"
// @Success     201 {object} models.CashMovement "Cash movement created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /movements/cash [post]
func (h *MovementHandler) CreateCashMovement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency, err := h.currencyService.GetByCode(req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	movement := &models.CashMovement{
		AccountID:     req.AccountID,
		CurrencyID:    currency.ID,
		Type:          req.Type,
		Date:          date,
		Amount:        req.Amount,
		AmountChanged: req.AmountChanged,
		Description:   req.Description,
	}
	if req.FromCurrency != nil && *req.FromCurrency != "" {
		fromCurrency, lookupErr := h.currencyService.GetByCode(*req.FromCurrency)
		if lookupErr != nil {
			respondWithError(c, lookupErr)
			return
		}
		movement.FromCurrencyID = &fromCurrency.ID
	}

	created, err := h.movementService.CreateCashMovement(userID, movement)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, created.AccountID, created.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cash_movement": created})
}

// DeleteCashMovement handles deleting a cash movement
// @Summary     Delete a cash movement
// @Description Delete a cash movement and recompute snapshots from its date
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Cash movement ID"
// @Success     200 {object} MessageResponse "Cash movement deleted"
// @Failure     400 {object} ErrorResponse "Invalid movement ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Movement not found"
// @Router      /movements/cash/{id} [delete]
func (h *MovementHandler) DeleteCashMovement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.movementService.DeleteCashMovement(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, deleted.AccountID, deleted.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cash movement deleted successfully"})
}

// GetCashMovements lists cash movements for an account
// @Summary     Get cash movements
// @Description Get a paginated list of cash movements for an account
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Account ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.CashMovement] "Paginated cash movements"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/movements/cash [get]
func (h *MovementHandler) GetCashMovements(c *gin.Context) {
	h.listMovements(c, func(userID, accountID uint, page pagination.PageRequest) (interface{}, error) {
		return h.movementService.GetCashMovements(userID, accountID, page)
	})
}

// CreateTradeRequest represents the request payload for a stock trade.
type CreateTradeRequest struct {
	AccountID  uint             `json:"account_id" binding:"required"`
	Currency   string           `json:"currency" binding:"required,iso4217"`
	Type       models.TradeType `json:"type" binding:"required,trade_type"`
	Ticker     string           `json:"ticker" binding:"required,max=16"`
	Quantity   decimal.Decimal  `json:"quantity" binding:"required"`
	Price      decimal.Decimal  `json:"price" binding:"required"`
	Commission decimal.Decimal  `json:"commission"`
	Date       *string          `json:"date"`
}

// CreateTrade handles the creation of a stock trade
// @Summary     Create a trade
// @Description Record a stock trade (buy, sell to open, or close) on a broker account
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTradeRequest true "Trade details"
// @Success     201 {object} models.Trade "Trade created"
// @Failure     400 {object} ErrorResponse "Invalid input or not a broker account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Router      /movements/trades [post]
func (h *MovementHandler) CreateTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency, err := h.currencyService.GetByCode(req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade := &models.Trade{
		AccountID:  req.AccountID,
		CurrencyID: currency.ID,
		Type:       req.Type,
		Date:       date,
		Ticker:     req.Ticker,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Commission: req.Commission,
	}

	created, err := h.movementService.CreateTrade(userID, trade)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, created.AccountID, created.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trade": created})
}

// DeleteTrade handles deleting a trade
// @Summary     Delete a trade
// @Description Delete a trade and recompute snapshots from its date
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Trade ID"
// @Success     200 {object} MessageResponse "Trade deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Trade not found"
// @Router      /movements/trades/{id} [delete]
func (h *MovementHandler) DeleteTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.movementService.DeleteTrade(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, deleted.AccountID, deleted.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trade deleted successfully"})
}

// GetTrades lists trades for an account
// @Summary     Get trades
// @Description Get a paginated list of trades for a broker account
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Account ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Trade] "Paginated trades"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/movements/trades [get]
func (h *MovementHandler) GetTrades(c *gin.Context) {
	h.listMovements(c, func(userID, accountID uint, page pagination.PageRequest) (interface{}, error) {
		return h.movementService.GetTrades(userID, accountID, page)
	})
}

// CreateDividendRequest represents the request payload for a dividend or a
// dividend tax, which share a shape.
type CreateDividendRequest struct {
	AccountID uint            `json:"account_id" binding:"required"`
	Currency  string          `json:"currency" binding:"required,iso4217"`
	Ticker    string          `json:"ticker" binding:"required,max=16"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Date      *string         `json:"date"`
}

// CreateDividend handles the creation of a dividend
// @Summary     Create a dividend
// @Description Record a gross dividend payment on a broker account
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDividendRequest true "Dividend details"
// @Success     201 {object} models.Dividend "Dividend created"
// @Failure     400 {object} ErrorResponse "Invalid input or not a broker account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Router      /movements/dividends [post]
func (h *MovementHandler) CreateDividend(c *gin.Context) {
	userID, req, currencyID, date, ok := h.bindDividendRequest(c)
	if !ok {
		return
	}

	dividend := &models.Dividend{
		AccountID:  req.AccountID,
		CurrencyID: currencyID,
		Date:       date,
		Ticker:     req.Ticker,
		Amount:     req.Amount,
	}

	created, err := h.movementService.CreateDividend(userID, dividend)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, created.AccountID, created.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dividend": created})
}

// CreateDividendTax handles the creation of a dividend tax
// @Summary     Create a dividend tax
// @Description Record tax withheld from a dividend on a broker account
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDividendRequest true "Dividend tax details"
// @Success     201 {object} models.DividendTax "Dividend tax created"
// @Failure     400 {object} ErrorResponse "Invalid input or not a broker account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Router      /movements/dividend-taxes [post]
func (h *MovementHandler) CreateDividendTax(c *gin.Context) {
	userID, req, currencyID, date, ok := h.bindDividendRequest(c)
	if !ok {
		return
	}

	tax := &models.DividendTax{
		AccountID:  req.AccountID,
		CurrencyID: currencyID,
		Date:       date,
		Ticker:     req.Ticker,
		Amount:     req.Amount,
	}

	created, err := h.movementService.CreateDividendTax(userID, tax)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, created.AccountID, created.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"dividend_tax": created})
}

func (h *MovementHandler) bindDividendRequest(c *gin.Context) (uint, CreateDividendRequest, uint, time.Time, bool) {
	var req CreateDividendRequest

	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return 0, req, 0, time.Time{}, false
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return 0, req, 0, time.Time{}, false
	}

	currency, err := h.currencyService.GetByCode(req.Currency)
	if err != nil {
		respondWithError(c, err)
		return 0, req, 0, time.Time{}, false
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return 0, req, 0, time.Time{}, false
	}

	return userID, req, currency.ID, date, true
}

// DeleteDividend handles deleting a dividend
// @Summary     Delete a dividend
// @Description Delete a dividend and recompute snapshots from its date
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Dividend ID"
// @Success     200 {object} MessageResponse "Dividend deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Dividend not found"
// @Router      /movements/dividends/{id} [delete]
func (h *MovementHandler) DeleteDividend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.movementService.DeleteDividend(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, deleted.AccountID, deleted.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dividend deleted successfully"})
}

// DeleteDividendTax handles deleting a dividend tax
// @Summary     Delete a dividend tax
// @Description Delete a dividend tax and recompute snapshots from its date
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Dividend tax ID"
// @Success     200 {object} MessageResponse "Dividend tax deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Dividend tax not found"
// @Router      /movements/dividend-taxes/{id} [delete]
func (h *MovementHandler) DeleteDividendTax(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.movementService.DeleteDividendTax(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, deleted.AccountID, deleted.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Dividend tax deleted successfully"})
}

// GetDividends lists dividends for an account
// @Summary     Get dividends
// @Description Get a paginated list of dividends for a broker account
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Account ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Dividend] "Paginated dividends"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/movements/dividends [get]
func (h *MovementHandler) GetDividends(c *gin.Context) {
	h.listMovements(c, func(userID, accountID uint, page pagination.PageRequest) (interface{}, error) {
		return h.movementService.GetDividends(userID, accountID, page)
	})
}

// GetDividendTaxes lists dividend taxes for an account
// @Summary     Get dividend taxes
// @Description Get a paginated list of dividend taxes for a broker account
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Account ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.DividendTax] "Paginated dividend taxes"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/movements/dividend-taxes [get]
func (h *MovementHandler) GetDividendTaxes(c *gin.Context) {
	h.listMovements(c, func(userID, accountID uint, page pagination.PageRequest) (interface{}, error) {
		return h.movementService.GetDividendTaxes(userID, accountID, page)
	})
}

// CreateOptionTradeRequest represents the request payload for an option trade.
type CreateOptionTradeRequest struct {
	AccountID      uint                   `json:"account_id" binding:"required"`
	Currency       string                 `json:"currency" binding:"required,iso4217"`
	Type           models.OptionTradeType `json:"type" binding:"required,option_trade_type"`
	Ticker         string                 `json:"ticker" binding:"required,max=16"`
	Contracts      int                    `json:"contracts" binding:"required,gt=0"`
	Premium        decimal.Decimal        `json:"premium" binding:"required"`
	Commission     decimal.Decimal        `json:"commission"`
	ExpirationDate string                 `json:"expiration_date" binding:"required"`
	Date           *string                `json:"date"`
}

// CreateOptionTrade handles the creation of an option trade
// @Summary     Create an option trade
// @Description Record an option trade on a broker account. Premium is the total premium for the trade.
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateOptionTradeRequest true "Option trade details"
// @Success     201 {object} models.OptionTrade "Option trade created"
// @Failure     400 {object} ErrorResponse "Invalid input or not a broker account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or currency not found"
// @Router      /movements/options [post]
func (h *MovementHandler) CreateOptionTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateOptionTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency, err := h.currencyService.GetByCode(req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expiration, err := parseFlexibleTime(req.ExpirationDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trade := &models.OptionTrade{
		AccountID:      req.AccountID,
		CurrencyID:     currency.ID,
		Type:           req.Type,
		Date:           date,
		Ticker:         req.Ticker,
		Contracts:      req.Contracts,
		Premium:        req.Premium,
		Commission:     req.Commission,
		ExpirationDate: models.Day(expiration),
	}

	created, err := h.movementService.CreateOptionTrade(userID, trade)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, created.AccountID, created.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"option_trade": created})
}

// DeleteOptionTrade handles deleting an option trade
// @Summary     Delete an option trade
// @Description Delete an option trade and recompute snapshots from its date
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Option trade ID"
// @Success     200 {object} MessageResponse "Option trade deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Option trade not found"
// @Router      /movements/options/{id} [delete]
func (h *MovementHandler) DeleteOptionTrade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.movementService.DeleteOptionTrade(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifySnapshotEngine(c, deleted.AccountID, deleted.Date)
	if c.IsAborted() {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option trade deleted successfully"})
}

// GetOptionTrades lists option trades for an account
// @Summary     Get option trades
// @Description Get a paginated list of option trades for a broker account
// @Tags        movements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Account ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.OptionTrade] "Paginated option trades"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/movements/options [get]
func (h *MovementHandler) GetOptionTrades(c *gin.Context) {
	h.listMovements(c, func(userID, accountID uint, page pagination.PageRequest) (interface{}, error) {
		return h.movementService.GetOptionTrades(userID, accountID, page)
	})
}

// listMovements factors the shared list plumbing: auth, account path ID,
// pagination binding, then the per-kind query.
func (h *MovementHandler) listMovements(c *gin.Context, query func(userID, accountID uint, page pagination.PageRequest) (interface{}, error)) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := query(userID, accountID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
