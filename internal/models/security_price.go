package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SecurityPrice represents one known market price for a ticker on a date,
// expressed in a specific currency. Unrealized gains always resolve the price
// valid on the snapshot date or the latest one before it, in the snapshot's
// own currency.
type SecurityPrice struct {
	Base
	Ticker     string          `gorm:"size:16;not null;uniqueIndex:idx_price_ticker_ccy_date" json:"ticker"`
	CurrencyID uint            `gorm:"not null;uniqueIndex:idx_price_ticker_ccy_date" json:"currency_id"`
	Date       time.Time       `gorm:"not null;uniqueIndex:idx_price_ticker_ccy_date" json:"date"`
	Price      decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"price"`

	// Relationships
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}
