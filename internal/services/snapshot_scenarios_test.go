package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"moneta/internal/models"
	"moneta/internal/testutil"
)

// snapshotTestEnv wires the full service stack against an in-memory database.
type snapshotTestEnv struct {
	db      *gorm.DB
	svc     *snapshotService
	user    *models.User
	usd     *models.Currency
	account *models.Account
}

func newSnapshotTestEnv(t *testing.T) *snapshotTestEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	accounts := NewAccountService(db)
	movements := NewMovementService(db, accounts)
	prices := NewPriceService(db)
	svc := NewSnapshotService(db, accounts, movements, prices).(*snapshotService)

	user := testutil.CreateTestUser(t, db)
	usd := testutil.CreateTestCurrency(t, db, "USD")
	account := testutil.CreateTestBrokerAccount(t, db, user.ID, usd.ID)

	return &snapshotTestEnv{db: db, svc: svc, user: user, usd: usd, account: account}
}

func (e *snapshotTestEnv) snapshotAt(t *testing.T, currencyID uint, date time.Time) *models.FinancialSnapshot {
	t.Helper()
	var snap models.FinancialSnapshot
	err := e.db.Where("account_id = ? AND currency_id = ? AND date = ?", e.account.ID, currencyID, date).
		First(&snap).Error
	if err != nil {
		t.Fatalf("expected snapshot for currency %d on %s: %v", currencyID, date.Format("2006-01-02"), err)
	}
	return &snap
}

func (e *snapshotTestEnv) snapshotCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.FinancialSnapshot{}).Where("account_id = ?", e.account.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count snapshots: %v", err)
	}
	return count
}

// insertSnapshot plants a stored snapshot row directly, for scenarios that
// need pre-existing state the engine did not produce.
func (e *snapshotTestEnv) insertSnapshot(t *testing.T, currencyID uint, date time.Time, mutate func(*models.FinancialSnapshot)) *models.FinancialSnapshot {
	t.Helper()

	parentID, err := e.svc.ensureAccountSnapshot(e.account.ID, date)
	testutil.AssertNoError(t, err)

	snap := models.ZeroSnapshot(e.account.ID, currencyID, date, parentID)
	if mutate != nil {
		mutate(&snap)
	}
	if err := e.db.Create(&snap).Error; err != nil {
		t.Fatalf("failed to insert snapshot: %v", err)
	}
	return &snap
}

func TestResolveCurrencyDay(t *testing.T) {
	d1 := day(2024, time.March, 1)
	d2 := day(2024, time.March, 5)

	t.Run("movements_without_history_form_the_baseline", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "1000", d1)
		testutil.CreateTestTrade(t, env.db, env.account.ID, env.usd.ID, models.TradeBuy, "AAPL", "10", "100", d1)
		testutil.CreateTestSecurityPrice(t, env.db, "AAPL", env.usd.ID, "110", d1)

		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))

		snap := env.snapshotAt(t, env.usd.ID, d1)
		assertDecimal(t, "Deposited", snap.Deposited, "1000")
		assertDecimal(t, "Invested", snap.Invested, "1000")
		assertDecimal(t, "UnrealizedGains", snap.UnrealizedGains, "100")
		if snap.MovementCount != 2 {
			t.Errorf("MovementCount = %d, want 2", snap.MovementCount)
		}
		if !snap.HasOpenTrades {
			t.Error("expected HasOpenTrades with an open stock position")
		}
	})

	t.Run("movements_on_top_of_history_accumulate", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "1000", d1)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))

		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "500", d2)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d2))

		snap := env.snapshotAt(t, env.usd.ID, d2)
		assertDecimal(t, "Deposited", snap.Deposited, "1500")
		if snap.MovementCount != 2 {
			t.Errorf("MovementCount = %d, want 2", snap.MovementCount)
		}
	})

	t.Run("revision_recomputes_in_place", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "1000", d1)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))

		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "500", d2)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d2))
		original := env.snapshotAt(t, env.usd.ID, d2)

		// A second movement lands on an already-snapshotted date.
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementWithdrawal, "200", d2)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d2))

		revised := env.snapshotAt(t, env.usd.ID, d2)
		if revised.ID != original.ID {
			t.Errorf("revision must keep the stored record's identity: %s != %s", revised.ID, original.ID)
		}
		assertDecimal(t, "Deposited", revised.Deposited, "1500")
		assertDecimal(t, "Withdrawn", revised.Withdrawn, "200")
	})

	t.Run("revision_without_history_replaces_totals", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		stored := env.insertSnapshot(t, env.usd.ID, d1, func(s *models.FinancialSnapshot) {
			s.Deposited = dec("99999")
			s.MovementCount = 42
		})
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "250", d1)

		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))

		snap := env.snapshotAt(t, env.usd.ID, d1)
		if snap.ID != stored.ID {
			t.Errorf("expected in-place update, got new record %s", snap.ID)
		}
		assertDecimal(t, "Deposited", snap.Deposited, "250")
		if snap.MovementCount != 1 {
			t.Errorf("MovementCount = %d, want 1", snap.MovementCount)
		}
	})

	t.Run("quiet_day_carries_previous_forward", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "1000", d1)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))

		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d2))

		snap := env.snapshotAt(t, env.usd.ID, d2)
		assertDecimal(t, "Deposited", snap.Deposited, "1000")
		if snap.MovementCount != 1 {
			t.Errorf("MovementCount = %d, want 1", snap.MovementCount)
		}
		prev := env.snapshotAt(t, env.usd.ID, d1)
		if snap.ID == prev.ID {
			t.Error("carry-forward must be a new record")
		}
	})

	t.Run("nothing_to_do_creates_nothing", func(t *testing.T) {
		env := newSnapshotTestEnv(t)

		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))

		if n := env.snapshotCount(t); n != 0 {
			t.Errorf("expected no snapshots for an account without movements, got %d", n)
		}
	})

	t.Run("consistent_stored_day_is_a_noop", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "1000", d1)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d2))
		before := env.snapshotAt(t, env.usd.ID, d2)

		// Re-running the quiet day must neither duplicate nor alter the row.
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d2))

		after := env.snapshotAt(t, env.usd.ID, d2)
		if after.ID != before.ID {
			t.Errorf("expected stable record identity, got %s then %s", before.ID, after.ID)
		}
		if n := env.snapshotCount(t); n != 2 {
			t.Errorf("expected 2 snapshots, got %d", n)
		}
	})

	t.Run("drifted_stored_day_is_corrected", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		testutil.CreateTestCashMovement(t, env.db, env.account.ID, env.usd.ID, models.CashMovementDeposit, "1000", d1)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d2))
		stored := env.snapshotAt(t, env.usd.ID, d2)

		// Corrupt the carry-forward row, then re-run the day.
		testutil.AssertNoError(t, env.db.Model(stored).Update("deposited", dec("777")).Error)
		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d2))

		corrected := env.snapshotAt(t, env.usd.ID, d2)
		if corrected.ID != stored.ID {
			t.Errorf("correction must keep the stored record's identity")
		}
		assertDecimal(t, "Deposited", corrected.Deposited, "1000")
	})

	t.Run("orphaned_record_resets_to_zero", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		stored := env.insertSnapshot(t, env.usd.ID, d1, func(s *models.FinancialSnapshot) {
			s.Deposited = dec("5000")
			s.RealizedGains = dec("123")
			s.MovementCount = 9
		})

		testutil.AssertNoError(t, env.svc.HandleAccountChange(env.account.ID, d1))

		snap := env.snapshotAt(t, env.usd.ID, d1)
		if snap.ID != stored.ID {
			t.Errorf("reset must keep the stored record's identity")
		}
		assertDecimal(t, "Deposited", snap.Deposited, "0")
		assertDecimal(t, "RealizedGains", snap.RealizedGains, "0")
		if snap.MovementCount != 0 {
			t.Errorf("MovementCount = %d, want 0", snap.MovementCount)
		}
	})
}

func TestValidateScenario(t *testing.T) {
	d := day(2024, time.March, 5)

	t.Run("previous_from_wrong_account_is_rejected", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		prev := models.ZeroSnapshot(env.account.ID+1, env.usd.ID, day(2024, time.March, 1), "")

		_, err := env.svc.resolveCurrencyDay(scenarioInput{
			account:    env.account,
			currencyID: env.usd.ID,
			date:       d,
			previous:   &prev,
		})

		testutil.AssertAppError(t, err, "SNAPSHOT_MISMATCH")
	})

	t.Run("previous_not_before_target_is_rejected", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		prev := models.ZeroSnapshot(env.account.ID, env.usd.ID, d, "")

		_, err := env.svc.resolveCurrencyDay(scenarioInput{
			account:    env.account,
			currencyID: env.usd.ID,
			date:       d,
			previous:   &prev,
		})

		testutil.AssertAppError(t, err, "SNAPSHOT_CHRONOLOGY")
	})

	t.Run("existing_on_different_date_is_rejected", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		existing := models.ZeroSnapshot(env.account.ID, env.usd.ID, day(2024, time.March, 4), "")

		_, err := env.svc.resolveCurrencyDay(scenarioInput{
			account:    env.account,
			currencyID: env.usd.ID,
			date:       d,
			existing:   &existing,
		})

		testutil.AssertAppError(t, err, "SNAPSHOT_MISMATCH")
	})

	t.Run("missing_price_aborts_the_day", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		testutil.CreateTestTrade(t, env.db, env.account.ID, env.usd.ID, models.TradeBuy, "AAPL", "10", "100", d)

		err := env.svc.HandleAccountChange(env.account.ID, d)

		testutil.AssertAppError(t, err, "PRICE_NOT_FOUND")
		if n := env.snapshotCount(t); n != 0 {
			t.Errorf("aborted day must not persist snapshots, got %d", n)
		}
	})
}
