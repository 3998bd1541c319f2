package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// PriceHandler handles security price requests.
type PriceHandler struct {
	priceService    services.PriceServicer
	currencyService services.CurrencyServicer
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService services.PriceServicer, currencyService services.CurrencyServicer) *PriceHandler {
	return &PriceHandler{priceService: priceService, currencyService: currencyService}
}

// RecordPriceRequest represents the request payload for recording a price.
type RecordPriceRequest struct {
	Ticker   string          `json:"ticker" binding:"required,max=16"`
	Currency string          `json:"currency" binding:"required,iso4217"`
	Date     string          `json:"date" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

// RecordPrice handles recording a security price (pipeline endpoint)
// @Summary     Record a security price
// @Description Store the market price for a ticker on a date. Re-recording the same ticker/currency/date overwrites the stored price.
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string             true "Pipeline API key"
// @Param       request   body   RecordPriceRequest true "Price details"
// @Success     201 {object} models.SecurityPrice "Price recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/prices [post]
func (h *PriceHandler) RecordPrice(c *gin.Context) {
	var req RecordPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	currency, err := h.currencyService.GetByCode(req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	price, err := h.priceService.RecordPrice(req.Ticker, currency.ID, date, req.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"price": price})
}

// GetPrices handles retrieving stored prices for a ticker
// @Summary     Get security prices
// @Description Get a paginated price history for a ticker in a currency
// @Tags        prices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       ticker    path  string true  "Ticker symbol"
// @Param       currency  query string true  "ISO 4217 currency code"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SecurityPrice] "Paginated prices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Router      /prices/{ticker} [get]
func (h *PriceHandler) GetPrices(c *gin.Context) {
	ticker := c.Param("ticker")
	if ticker == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "ticker is required"))
		return
	}

	code := c.Query("currency")
	if code == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "currency is required"))
		return
	}
	currency, err := h.currencyService.GetByCode(code)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.priceService.GetPrices(ticker, currency.ID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
