package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moneta/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Dec builds a decimal from a string literal, failing the test on bad input.
func Dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal literal %q: %v", s, err)
	}
	return d
}

// Date builds a UTC midnight date for fixtures.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCurrency creates a currency with the given code, reusing an
// existing row when the code was already seeded.
func CreateTestCurrency(t *testing.T, db *gorm.DB, code string) *models.Currency {
	t.Helper()

	var existing models.Currency
	if err := db.Where("code = ?", code).First(&existing).Error; err == nil {
		return &existing
	}

	currency := &models.Currency{
		Code:   code,
		Name:   code,
		Symbol: code,
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestBankAccount creates a bank account in the given currency.
func CreateTestBankAccount(t *testing.T, db *gorm.DB, userID, currencyID uint) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:     userID,
		Name:       fmt.Sprintf("Test Bank Account %d", nextID()),
		Type:       models.AccountTypeBank,
		CurrencyID: currencyID,
		IsActive:   true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// CreateTestBrokerAccount creates a broker account in the given currency.
func CreateTestBrokerAccount(t *testing.T, db *gorm.DB, userID, currencyID uint) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:     userID,
		Name:       fmt.Sprintf("Test Broker Account %d", nextID()),
		Type:       models.AccountTypeBroker,
		CurrencyID: currencyID,
		IsActive:   true,
		Broker:     "Test Broker",
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test broker account: %v", err)
	}
	return account
}

// CreateTestCashMovement creates a cash movement of the given type and amount.
func CreateTestCashMovement(t *testing.T, db *gorm.DB, accountID, currencyID uint, movementType models.CashMovementType, amount string, date time.Time) *models.CashMovement {
	t.Helper()

	movement := &models.CashMovement{
		AccountID:  accountID,
		CurrencyID: currencyID,
		Type:       movementType,
		Date:       date,
		Amount:     Dec(t, amount),
	}
	if err := db.Create(movement).Error; err != nil {
		t.Fatalf("failed to create test cash movement: %v", err)
	}
	return movement
}

// CreateTestTrade creates a stock trade.
func CreateTestTrade(t *testing.T, db *gorm.DB, accountID, currencyID uint, tradeType models.TradeType, ticker, quantity, price string, date time.Time) *models.Trade {
	t.Helper()

	trade := &models.Trade{
		AccountID:  accountID,
		CurrencyID: currencyID,
		Type:       tradeType,
		Date:       date,
		Ticker:     ticker,
		Quantity:   Dec(t, quantity),
		Price:      Dec(t, price),
		Commission: decimal.Zero,
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return trade
}

// CreateTestDividend creates a gross dividend.
func CreateTestDividend(t *testing.T, db *gorm.DB, accountID, currencyID uint, ticker, amount string, date time.Time) *models.Dividend {
	t.Helper()

	dividend := &models.Dividend{
		AccountID:  accountID,
		CurrencyID: currencyID,
		Date:       date,
		Ticker:     ticker,
		Amount:     Dec(t, amount),
	}
	if err := db.Create(dividend).Error; err != nil {
		t.Fatalf("failed to create test dividend: %v", err)
	}
	return dividend
}

// CreateTestSecurityPrice stores a market price for a ticker on a date.
func CreateTestSecurityPrice(t *testing.T, db *gorm.DB, ticker string, currencyID uint, price string, date time.Time) *models.SecurityPrice {
	t.Helper()

	p := &models.SecurityPrice{
		Ticker:     ticker,
		CurrencyID: currencyID,
		Date:       date,
		Price:      Dec(t, price),
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test security price: %v", err)
	}
	return p
}
