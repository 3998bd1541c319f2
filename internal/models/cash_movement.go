package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashMovementType represents the subtype of a cash movement.
type CashMovementType string

const (
	CashMovementDeposit        CashMovementType = "deposit"
	CashMovementWithdrawal     CashMovementType = "withdrawal"
	CashMovementFee            CashMovementType = "fee"
	CashMovementInterestGained CashMovementType = "interest_gained"
	CashMovementInterestPaid   CashMovementType = "interest_paid"
	CashMovementConversion     CashMovementType = "conversion"
	CashMovementACATTransfer   CashMovementType = "acat_transfer"
)

// Valid reports whether the type is one of the supported subtypes.
func (t CashMovementType) Valid() bool {
	switch t {
	case CashMovementDeposit, CashMovementWithdrawal, CashMovementFee,
		CashMovementInterestGained, CashMovementInterestPaid,
		CashMovementConversion, CashMovementACATTransfer:
		return true
	}
	return false
}

// CashMovement represents a cash event on an account. Movements are
// append-only inputs to the snapshot engine and are never mutated by it.
//
// A conversion is a single movement affecting two currencies: CurrencyID is
// the target currency receiving Amount, FromCurrencyID is the source currency
// giving up AmountChanged. Both sides are derived from this one row.
type CashMovement struct {
	Base
	AccountID  uint             `gorm:"not null;index:idx_cash_account_date" json:"account_id"`
	CurrencyID uint             `gorm:"not null" json:"currency_id"`
	Type       CashMovementType `gorm:"not null" json:"type"`
	Date       time.Time        `gorm:"not null;index:idx_cash_account_date" json:"date"`
	Amount     decimal.Decimal  `gorm:"type:numeric(30,10);not null" json:"amount"`

	// For conversions
	FromCurrencyID *uint            `json:"from_currency_id,omitempty"`
	AmountChanged  *decimal.Decimal `gorm:"type:numeric(30,10)" json:"amount_changed,omitempty"`

	Description string `json:"description"`

	// Relationships
	Account  Account  `gorm:"foreignKey:AccountID" json:"account"`
	Currency Currency `gorm:"foreignKey:CurrencyID" json:"currency"`
}
