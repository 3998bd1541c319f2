package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moneta/internal/uuid"
)

// AccountSnapshot is the per-account grouping row for one calendar date. Its
// children are the per-currency FinancialSnapshot rows for the same date; the
// cascade uses it to group and roll up currency snapshots of one account.
type AccountSnapshot struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;uniqueIndex:idx_acctsnap_account_date" json:"account_id"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_acctsnap_account_date" json:"date"`
	CreatedAt time.Time `json:"created_at"`

	Snapshots []FinancialSnapshot `gorm:"foreignKey:AccountSnapshotID" json:"snapshots,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (a *AccountSnapshot) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New()
	}
	return nil
}

// FinancialSnapshot is the cumulative financial state of one (account,
// currency) pair at the end of one calendar date. At most one row exists per
// (account, currency, date). Cumulative fields are always derived from the
// immediately preceding snapshot plus the date's own movements, never by
// re-scanning full history.
type FinancialSnapshot struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	AccountSnapshotID string    `gorm:"type:uuid;not null" json:"account_snapshot_id"`
	AccountID         uint      `gorm:"not null;uniqueIndex:idx_finsnap_account_ccy_date" json:"account_id"`
	CurrencyID        uint      `gorm:"not null;uniqueIndex:idx_finsnap_account_ccy_date" json:"currency_id"`
	Date              time.Time `gorm:"not null;uniqueIndex:idx_finsnap_account_ccy_date" json:"date"`

	Deposited          decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"deposited"`
	Withdrawn          decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"withdrawn"`
	Invested           decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"invested"`
	Commissions        decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"commissions"`
	Fees               decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"fees"`
	DividendsReceived  decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"dividends_received"`
	OptionsIncome      decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"options_income"`
	OtherIncome        decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"other_income"`
	RealizedGains      decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"realized_gains"`
	RealizedGainsPct   float64         `gorm:"not null;default:0" json:"realized_gains_pct"`
	UnrealizedGains    decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"unrealized_gains"`
	UnrealizedGainsPct float64         `gorm:"not null;default:0" json:"unrealized_gains_pct"`
	MovementCount      int             `gorm:"not null;default:0" json:"movement_count"`
	HasOpenTrades      bool            `gorm:"not null;default:false" json:"has_open_trades"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (f *FinancialSnapshot) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New()
	}
	return nil
}

// ZeroSnapshot returns an all-zero snapshot for the given key. Used when an
// account is created and when an orphaned row has to be reset.
func ZeroSnapshot(accountID, currencyID uint, date time.Time, accountSnapshotID string) FinancialSnapshot {
	return FinancialSnapshot{
		AccountSnapshotID: accountSnapshotID,
		AccountID:         accountID,
		CurrencyID:        currencyID,
		Date:              Day(date),
		Deposited:         decimal.Zero,
		Withdrawn:         decimal.Zero,
		Invested:          decimal.Zero,
		Commissions:       decimal.Zero,
		Fees:              decimal.Zero,
		DividendsReceived: decimal.Zero,
		OptionsIncome:     decimal.Zero,
		OtherIncome:       decimal.Zero,
		RealizedGains:     decimal.Zero,
		UnrealizedGains:   decimal.Zero,
	}
}
