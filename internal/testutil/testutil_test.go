package testutil_test

import (
	"testing"
	"time"

	"moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "currencies", "accounts", "cash_movements", "trades", "dividends", "dividend_taxes", "option_trades", "security_prices", "account_snapshots", "financial_snapshots"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	usd := testutil.CreateTestCurrency(t, db, "USD")
	if usd.ID == 0 {
		t.Fatal("currency should have a non-zero ID")
	}
	if again := testutil.CreateTestCurrency(t, db, "USD"); again.ID != usd.ID {
		t.Errorf("expected currency fixture to reuse existing row, got ID %d and %d", usd.ID, again.ID)
	}

	bank := testutil.CreateTestBankAccount(t, db, user.ID, usd.ID)
	if bank.Type != models.AccountTypeBank {
		t.Errorf("expected bank account type, got %s", bank.Type)
	}

	broker := testutil.CreateTestBrokerAccount(t, db, user.ID, usd.ID)
	if broker.Type != models.AccountTypeBroker {
		t.Errorf("expected broker account type, got %s", broker.Type)
	}

	date := testutil.Date(2024, time.March, 15)
	movement := testutil.CreateTestCashMovement(t, db, bank.ID, usd.ID, models.CashMovementDeposit, "100.50", date)
	if !movement.Amount.Equal(testutil.Dec(t, "100.50")) {
		t.Errorf("expected amount 100.50, got %s", movement.Amount)
	}

	trade := testutil.CreateTestTrade(t, db, broker.ID, usd.ID, models.TradeBuy, "AAPL", "10", "180.25", date)
	if trade.Ticker != "AAPL" {
		t.Errorf("expected ticker AAPL, got %s", trade.Ticker)
	}

	price := testutil.CreateTestSecurityPrice(t, db, "AAPL", usd.ID, "185.00", date)
	if !price.Price.Equal(testutil.Dec(t, "185.00")) {
		t.Errorf("expected price 185.00, got %s", price.Price)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrAccountNotFound, "custom message")
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
