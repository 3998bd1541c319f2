package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType represents the direction of a stock trade.
type TradeType string

const (
	// TradeBuy opens or increases a long position, or covers a short.
	TradeBuy TradeType = "buy"
	// TradeSellToOpen opens or increases a short position.
	TradeSellToOpen TradeType = "sell_to_open"
	// TradeClose reduces the current position, whichever sign it has.
	TradeClose TradeType = "close"
)

// Trade represents a stock trade on a broker account.
type Trade struct {
	Base
	AccountID  uint            `gorm:"not null;index:idx_trade_account_date" json:"account_id"`
	CurrencyID uint            `gorm:"not null" json:"currency_id"`
	Type       TradeType       `gorm:"not null" json:"type"`
	Date       time.Time       `gorm:"not null;index:idx_trade_account_date" json:"date"`
	Ticker     string          `gorm:"size:16;not null" json:"ticker"`
	Quantity   decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"price"`
	Commission decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0" json:"commission"`

	// Relationships
	Account  Account  `gorm:"foreignKey:AccountID" json:"account"`
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}
