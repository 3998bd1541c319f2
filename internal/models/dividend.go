package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dividend represents a gross dividend payment received on a broker account.
type Dividend struct {
	Base
	AccountID  uint            `gorm:"not null;index:idx_dividend_account_date" json:"account_id"`
	CurrencyID uint            `gorm:"not null" json:"currency_id"`
	Date       time.Time       `gorm:"not null;index:idx_dividend_account_date" json:"date"`
	Ticker     string          `gorm:"size:16;not null" json:"ticker"`
	Amount     decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"amount"`

	// Relationships
	Account  Account  `gorm:"foreignKey:AccountID" json:"account"`
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}

// DividendTax represents tax withheld from a dividend payment. Taxes are
// recorded separately from the gross dividend; net dividend income for a
// currency and period is gross dividends minus taxes withheld.
type DividendTax struct {
	Base
	AccountID  uint            `gorm:"not null;index:idx_divtax_account_date" json:"account_id"`
	CurrencyID uint            `gorm:"not null" json:"currency_id"`
	Date       time.Time       `gorm:"not null;index:idx_divtax_account_date" json:"date"`
	Ticker     string          `gorm:"size:16;not null" json:"ticker"`
	Amount     decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"amount"`

	// Relationships
	Account  Account  `gorm:"foreignKey:AccountID" json:"account"`
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}
