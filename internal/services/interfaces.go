package services

import (
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
	"moneta/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// CurrencyServicer defines the contract for currency lookups.
type CurrencyServicer interface {
	GetByCode(code string) (*models.Currency, error)
	GetByID(id uint) (*models.Currency, error)
	List() ([]models.Currency, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, name, description string, accountType models.AccountType, currencyID uint, broker, accountNumber string) (*models.Account, error)
	GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	UpdateAccount(userID, accountID uint, name, description string) (*models.Account, error)
	DeactivateAccount(userID, accountID uint) error
}

// MovementServicer is the movement repository: append/read access to the five
// movement kinds. The snapshot engine reads movements exclusively through the
// *From queries (account + inclusive date-from); it never mutates them.
type MovementServicer interface {
	CreateCashMovement(userID uint, movement *models.CashMovement) (*models.CashMovement, error)
	CreateTrade(userID uint, trade *models.Trade) (*models.Trade, error)
	CreateDividend(userID uint, dividend *models.Dividend) (*models.Dividend, error)
	CreateDividendTax(userID uint, tax *models.DividendTax) (*models.DividendTax, error)
	CreateOptionTrade(userID uint, trade *models.OptionTrade) (*models.OptionTrade, error)

	DeleteCashMovement(userID, id uint) (*models.CashMovement, error)
	DeleteTrade(userID, id uint) (*models.Trade, error)
	DeleteDividend(userID, id uint) (*models.Dividend, error)
	DeleteDividendTax(userID, id uint) (*models.DividendTax, error)
	DeleteOptionTrade(userID, id uint) (*models.OptionTrade, error)

	GetCashMovements(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CashMovement], error)
	GetTrades(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error)
	GetDividends(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Dividend], error)
	GetDividendTaxes(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.DividendTax], error)
	GetOptionTrades(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.OptionTrade], error)

	CashMovementsFrom(accountID uint, from time.Time) ([]models.CashMovement, error)
	TradesFrom(accountID uint, from time.Time) ([]models.Trade, error)
	DividendsFrom(accountID uint, from time.Time) ([]models.Dividend, error)
	DividendTaxesFrom(accountID uint, from time.Time) ([]models.DividendTax, error)
	OptionTradesFrom(accountID uint, from time.Time) ([]models.OptionTrade, error)
}

// PriceSource resolves the market price for a ticker valid on the given date
// or the latest known price before it, expressed in the requested currency.
// A missing price must surface as an error, never as zero.
type PriceSource interface {
	PriceOnOrBefore(ticker string, date time.Time, currencyID uint) (decimal.Decimal, error)
}

// PriceServicer defines the contract for security price storage and lookup.
type PriceServicer interface {
	PriceSource
	RecordPrice(ticker string, currencyID uint, date time.Time, price decimal.Decimal) (*models.SecurityPrice, error)
	GetPrices(ticker string, currencyID uint, page pagination.PageRequest) (*pagination.PageResponse[models.SecurityPrice], error)
}

// AccountRollup is the parent-level view of one account's snapshots for a
// date: the grouping row plus its per-currency children.
type AccountRollup struct {
	AccountID uint                       `json:"account_id"`
	Date      time.Time                  `json:"date"`
	Snapshots []models.FinancialSnapshot `json:"snapshots"`
}

// SnapshotServicer is the single entry point into the snapshot engine.
// Calling layers notify it of mutations; everything else (scenario
// resolution, cascading, parent rollups) is internal.
type SnapshotServicer interface {
	HandleAccountChange(accountID uint, date time.Time) error
	HandleNewAccount(account *models.Account) error
	RecomputeAccount(accountID uint) error
	GetAccountSnapshots(userID, accountID uint, currencyID *uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.FinancialSnapshot], error)
	GetAccountRollup(userID, accountID uint, date time.Time) (*AccountRollup, error)
}
