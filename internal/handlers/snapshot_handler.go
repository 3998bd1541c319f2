package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// SnapshotHandler handles financial snapshot requests.
type SnapshotHandler struct {
	snapshotService services.SnapshotServicer
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService services.SnapshotServicer) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// GetAccountSnapshots handles retrieving per-currency snapshots for an account
// @Summary     Get account snapshots
// @Description Get paginated per-currency financial snapshots for an account over a date range
// @Tags        snapshots
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  int    true  "Account ID"
// @Param       from_date   query string true  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string true  "End date (RFC3339 or YYYY-MM-DD)"
// @Param       currency_id query int    false "Filter by currency ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.FinancialSnapshot] "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /accounts/{id}/snapshots [get]
func (h *SnapshotHandler) GetAccountSnapshots(c *gin.Context) {
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

	from, to, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var currencyID *uint
	if v := c.Query("currency_id"); v != "" {
		id, parseErr := strconv.ParseUint(v, 10, 32)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid currency_id"))
			return
		}
		cid := uint(id)
		currencyID = &cid
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.snapshotService.GetAccountSnapshots(userID, accountID, currencyID, from, to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountRollup handles retrieving the account-level rollup for a date
// @Summary     Get account rollup
// @Description Get the account-level snapshot for a date: the grouping row and all per-currency snapshots under it. Resolves to the most recent snapshot on or before the date.
// @Tags        snapshots
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  int    true  "Account ID"
// @Param       date query string false "Date (RFC3339 or YYYY-MM-DD, default today)"
// @Success     200 {object} services.AccountRollup "Account rollup"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or snapshot not found"
// @Router      /accounts/{id}/snapshots/rollup [get]
func (h *SnapshotHandler) GetAccountRollup(c *gin.Context) {
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

	date := time.Now().UTC()
	if v := c.Query("date"); v != "" {
		parsed, parseErr := parseFlexibleTime(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		date = parsed
	}

	rollup, err := h.snapshotService.GetAccountRollup(userID, accountID, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rollup": rollup})
}

// RecomputeAccountRequest represents the request payload for a full recompute.
type RecomputeAccountRequest struct {
	AccountID uint `json:"account_id" binding:"required"`
}

// RecomputeAccount handles a full snapshot recomputation (pipeline endpoint)
// @Summary     Recompute account snapshots
// @Description Rebuild every snapshot for an account from its earliest recorded activity
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string                  true "Pipeline API key"
// @Param       request   body   RecomputeAccountRequest true "Recompute parameters"
// @Success     200 {object} MessageResponse "Recompute finished"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/snapshots/recompute [post]
func (h *SnapshotHandler) RecomputeAccount(c *gin.Context) {
	var req RecomputeAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.snapshotService.RecomputeAccount(req.AccountID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account snapshots recomputed"})
}

// parseDateRange parses the required from_date and to_date query parameters.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	fromStr := c.Query("from_date")
	if fromStr == "" {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date is required")
	}
	from, err := parseFlexibleTime(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	toStr := c.Query("to_date")
	if toStr == "" {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date is required")
	}
	to, err := parseFlexibleTime(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	return from, to, nil
}
