package services

import (
	"testing"
	"time"

	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/testutil"
)

func newMovementTestEnv(t *testing.T) (*snapshotTestEnv, MovementServicer, *models.Account) {
	t.Helper()
	env := newSnapshotTestEnv(t)
	bank := testutil.CreateTestBankAccount(t, env.db, env.user.ID, env.usd.ID)
	return env, env.svc.movements, bank
}

func TestCreateCashMovement(t *testing.T) {
	noon := time.Date(2024, time.March, 5, 12, 30, 0, 0, time.UTC)

	t.Run("normalizes_date_to_utc_midnight", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)

		created, err := svc.CreateCashMovement(env.user.ID, &models.CashMovement{
			AccountID:  env.account.ID,
			CurrencyID: env.usd.ID,
			Type:       models.CashMovementDeposit,
			Date:       noon,
			Amount:     dec("100"),
		})
		testutil.AssertNoError(t, err)

		if !created.Date.Equal(day(2024, time.March, 5)) {
			t.Errorf("Date = %s, want UTC midnight", created.Date)
		}
	})

	t.Run("other_users_account_is_hidden", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)
		other := testutil.CreateTestUserWithEmail(t, env.db, "intruder@example.com")

		_, err := svc.CreateCashMovement(other.ID, &models.CashMovement{
			AccountID:  env.account.ID,
			CurrencyID: env.usd.ID,
			Type:       models.CashMovementDeposit,
			Date:       noon,
			Amount:     dec("100"),
		})

		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("unknown_type_is_rejected", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)

		_, err := svc.CreateCashMovement(env.user.ID, &models.CashMovement{
			AccountID:  env.account.ID,
			CurrencyID: env.usd.ID,
			Type:       "adjustment",
			Date:       noon,
			Amount:     dec("100"),
		})

		testutil.AssertAppError(t, err, "INVALID_MOVEMENT_TYPE")
	})

	t.Run("conversion_requires_source_side", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)

		_, err := svc.CreateCashMovement(env.user.ID, &models.CashMovement{
			AccountID:  env.account.ID,
			CurrencyID: env.usd.ID,
			Type:       models.CashMovementConversion,
			Date:       noon,
			Amount:     dec("100"),
		})

		testutil.AssertAppError(t, err, "CONVERSION_INCOMPLETE")
	})

	t.Run("complete_conversion_is_stored", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)
		eur := testutil.CreateTestCurrency(t, env.db, "EUR")
		changed := dec("-108")

		created, err := svc.CreateCashMovement(env.user.ID, &models.CashMovement{
			AccountID:      env.account.ID,
			CurrencyID:     env.usd.ID,
			Type:           models.CashMovementConversion,
			Date:           noon,
			Amount:         dec("100"),
			FromCurrencyID: &eur.ID,
			AmountChanged:  &changed,
		})
		testutil.AssertNoError(t, err)
		if created.ID == 0 {
			t.Error("expected persisted conversion to have an ID")
		}
	})
}

func TestCreateTrade(t *testing.T) {
	d := day(2024, time.March, 5)

	t.Run("rejects_bank_accounts", func(t *testing.T) {
		env, svc, bank := newMovementTestEnv(t)

		_, err := svc.CreateTrade(env.user.ID, &models.Trade{
			AccountID:  bank.ID,
			CurrencyID: env.usd.ID,
			Type:       models.TradeBuy,
			Date:       d,
			Ticker:     "AAPL",
			Quantity:   dec("10"),
			Price:      dec("100"),
		})

		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_non_positive_quantity", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)

		_, err := svc.CreateTrade(env.user.ID, &models.Trade{
			AccountID:  env.account.ID,
			CurrencyID: env.usd.ID,
			Type:       models.TradeBuy,
			Date:       d,
			Ticker:     "AAPL",
			Quantity:   dec("0"),
			Price:      dec("100"),
		})

		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("stores_valid_trade", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)

		created, err := svc.CreateTrade(env.user.ID, &models.Trade{
			AccountID:  env.account.ID,
			CurrencyID: env.usd.ID,
			Type:       models.TradeBuy,
			Date:       d,
			Ticker:     "AAPL",
			Quantity:   dec("10"),
			Price:      dec("100"),
		})
		testutil.AssertNoError(t, err)
		if created.ID == 0 {
			t.Error("expected persisted trade to have an ID")
		}
	})
}

func TestCreateOptionTrade(t *testing.T) {
	d := day(2024, time.March, 5)
	exp := time.Date(2024, time.April, 19, 15, 0, 0, 0, time.UTC)

	t.Run("rejects_zero_contracts", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)

		_, err := svc.CreateOptionTrade(env.user.ID, &models.OptionTrade{
			AccountID:      env.account.ID,
			CurrencyID:     env.usd.ID,
			Type:           models.OptionSellToOpen,
			Date:           d,
			Ticker:         "AAPL",
			Contracts:      0,
			Premium:        dec("150"),
			ExpirationDate: exp,
		})

		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("normalizes_both_dates", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)

		created, err := svc.CreateOptionTrade(env.user.ID, &models.OptionTrade{
			AccountID:      env.account.ID,
			CurrencyID:     env.usd.ID,
			Type:           models.OptionSellToOpen,
			Date:           time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC),
			Ticker:         "AAPL",
			Contracts:      1,
			Premium:        dec("150"),
			ExpirationDate: exp,
		})
		testutil.AssertNoError(t, err)

		if !created.Date.Equal(d) {
			t.Errorf("Date = %s, want UTC midnight", created.Date)
		}
		if !created.ExpirationDate.Equal(day(2024, time.April, 19)) {
			t.Errorf("ExpirationDate = %s, want UTC midnight", created.ExpirationDate)
		}
	})
}

func TestDeleteMovements(t *testing.T) {
	d := day(2024, time.March, 5)

	t.Run("delete_returns_the_removed_movement", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)
		stored := testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "100", d)

		deleted, err := svc.DeleteCashMovement(env.user.ID, stored.ID)
		testutil.AssertNoError(t, err)

		if !deleted.Date.Equal(d) {
			t.Errorf("deleted movement date = %s, want %s", deleted.Date, d)
		}
		var count int64
		env.db.Model(&models.CashMovement{}).Where("id = ?", stored.ID).Count(&count)
		if count != 0 {
			t.Error("movement still present after delete")
		}
	})

	t.Run("other_users_movement_reports_not_found", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)
		stored := testutil.CreateTestTrade(t, env.db, env.account.ID, env.usd.ID, models.TradeBuy, "AAPL", "10", "100", d)
		other := testutil.CreateTestUserWithEmail(t, env.db, "sneaky@example.com")

		_, err := svc.DeleteTrade(other.ID, stored.ID)

		testutil.AssertAppError(t, err, "MOVEMENT_NOT_FOUND")
	})

	t.Run("unknown_id_reports_not_found", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)

		_, err := svc.DeleteDividend(env.user.ID, 99999)

		testutil.AssertAppError(t, err, "MOVEMENT_NOT_FOUND")
	})
}

func TestMovementsFrom(t *testing.T) {
	d1 := day(2024, time.March, 1)
	d2 := day(2024, time.March, 5)
	d3 := day(2024, time.March, 9)

	t.Run("filters_on_or_after_and_orders_ascending", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "1", d3)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "2", d1)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "3", d2)

		movements, err := svc.CashMovementsFrom(env.account.ID, d2)
		testutil.AssertNoError(t, err)

		if len(movements) != 2 {
			t.Fatalf("expected 2 movements, got %d", len(movements))
		}
		if !movements[0].Date.Equal(d2) || !movements[1].Date.Equal(d3) {
			t.Errorf("expected ascending dates %s, %s; got %s, %s",
				d2.Format("2006-01-02"), d3.Format("2006-01-02"),
				movements[0].Date.Format("2006-01-02"), movements[1].Date.Format("2006-01-02"))
		}
	})

	t.Run("zero_from_returns_full_history", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)
		testutil.CreateTestTrade(t, env.db, env.account.ID, env.usd.ID, models.TradeBuy, "AAPL", "10", "100", d1)
		testutil.CreateTestTrade(t, env.db, env.account.ID, env.usd.ID, models.TradeClose, "AAPL", "5", "110", d2)

		trades, err := svc.TradesFrom(env.account.ID, time.Time{})
		testutil.AssertNoError(t, err)

		if len(trades) != 2 {
			t.Errorf("expected 2 trades, got %d", len(trades))
		}
	})
}

func TestGetMovements(t *testing.T) {
	d := day(2024, time.March, 5)

	t.Run("pages_newest_first", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)
		for i := 0; i < 3; i++ {
			testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "10", d.AddDate(0, 0, i))
		}

		resp, err := svc.GetCashMovements(env.user.ID, env.account.ID, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)

		if resp.TotalItems != 3 || len(resp.Data) != 2 {
			t.Fatalf("TotalItems = %d, page len = %d; want 3 and 2", resp.TotalItems, len(resp.Data))
		}
		if resp.Data[0].Date.Before(resp.Data[1].Date) {
			t.Error("expected newest-first ordering")
		}
	})

	t.Run("ownership_is_enforced", func(t *testing.T) {
		env, svc, _ := newMovementTestEnv(t)
		other := testutil.CreateTestUserWithEmail(t, env.db, "peek@example.com")

		_, err := svc.GetTrades(other.ID, env.account.ID, pagination.PageRequest{})

		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}
