package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// priceService stores and resolves security prices. The lookup is currency
// aware: a snapshot in EUR must never compare its cost basis against a USD
// quote.
type priceService struct {
	db *gorm.DB
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(db *gorm.DB) PriceServicer {
	return &priceService{db: db}
}

// RecordPrice upserts the price for (ticker, currency, date).
func (s *priceService) RecordPrice(ticker string, currencyID uint, date time.Time, price decimal.Decimal) (*models.SecurityPrice, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}
	if price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price must not be negative")
	}
	day := models.Day(date)

	var existing models.SecurityPrice
	err := s.db.Where("ticker = ? AND currency_id = ? AND date = ?", ticker, currencyID, day).
		First(&existing).Error
	if err == nil {
		if updErr := s.db.Model(&existing).Update("price", price).Error; updErr != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, updErr)
		}
		existing.Price = price
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	row := &models.SecurityPrice{
		Ticker:     ticker,
		CurrencyID: currencyID,
		Date:       day,
		Price:      price,
	}
	if err := s.db.Create(row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row, nil
}

// PriceOnOrBefore returns the price valid on the date or the latest known
// price before it, in the given currency. A missing price is a hard error;
// defaulting to zero would silently misstate unrealized gains.
func (s *priceService) PriceOnOrBefore(ticker string, date time.Time, currencyID uint) (decimal.Decimal, error) {
	var row models.SecurityPrice
	err := s.db.Where("ticker = ? AND currency_id = ? AND date <= ?",
		strings.ToUpper(ticker), currencyID, models.Day(date)).
		Order("date DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apperrors.WithMessage(apperrors.ErrPriceNotFound,
				fmt.Sprintf("No price for %s on or before %s in currency %d",
					strings.ToUpper(ticker), date.Format("2006-01-02"), currencyID))
		}
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row.Price, nil
}

// GetPrices returns the paginated price history for a ticker and currency,
// newest first.
func (s *priceService) GetPrices(ticker string, currencyID uint, page pagination.PageRequest) (*pagination.PageResponse[models.SecurityPrice], error) {
	page.Defaults()

	base := s.db.Model(&models.SecurityPrice{}).
		Where("ticker = ? AND currency_id = ?", strings.ToUpper(ticker), currencyID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.SecurityPrice
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(prices, page.Page, page.PageSize, totalItems)
	return &result, nil
}
