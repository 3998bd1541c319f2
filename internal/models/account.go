package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeBank   AccountType = "bank"
	AccountTypeBroker AccountType = "broker"
)

// Account represents a financial account in the system. Bank accounts hold
// only cash movements; broker accounts additionally hold trades, dividends,
// dividend taxes, and option trades.
type Account struct {
	Base
	UserID      uint        `gorm:"not null" json:"user_id"`
	Name        string      `gorm:"not null" json:"name"`
	Type        AccountType `gorm:"not null" json:"type"`
	Description string      `json:"description"`
	CurrencyID  uint        `gorm:"not null" json:"currency_id"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`

	// For broker accounts
	Broker        string `json:"broker,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`

	// Relationships
	Currency      Currency            `gorm:"foreignKey:CurrencyID" json:"currency"`
	CashMovements []CashMovement      `gorm:"foreignKey:AccountID" json:"cash_movements,omitempty"`
	Snapshots     []FinancialSnapshot `gorm:"foreignKey:AccountID" json:"snapshots,omitempty"`
}
