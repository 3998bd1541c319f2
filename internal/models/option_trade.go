package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionTradeType represents the direction of an option trade.
type OptionTradeType string

const (
	OptionSellToOpen  OptionTradeType = "sell_to_open"
	OptionBuyToOpen   OptionTradeType = "buy_to_open"
	OptionBuyToClose  OptionTradeType = "buy_to_close"
	OptionSellToClose OptionTradeType = "sell_to_close"
)

// OptionTrade represents an option contract trade on a broker account.
// Premium is the total premium exchanged for the trade, not per contract.
type OptionTrade struct {
	Base
	AccountID      uint            `gorm:"not null;index:idx_option_account_date" json:"account_id"`
	CurrencyID     uint            `gorm:"not null" json:"currency_id"`
	Type           OptionTradeType `gorm:"not null" json:"type"`
	Date           time.Time       `gorm:"not null;index:idx_option_account_date" json:"date"`
	Ticker         string          `gorm:"size:16;not null" json:"ticker"`
	Contracts      int             `gorm:"not null" json:"contracts"`
	Premium        decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"premium"`
	Commission     decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0" json:"commission"`
	ExpirationDate time.Time       `gorm:"not null" json:"expiration_date"`

	// Relationships
	Account  Account  `gorm:"foreignKey:AccountID" json:"account"`
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}

// IsOpening reports whether the trade opens an option position.
func (o *OptionTrade) IsOpening() bool {
	return o.Type == OptionSellToOpen || o.Type == OptionBuyToOpen
}
