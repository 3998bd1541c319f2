package services

import (
	"testing"

	"moneta/internal/models"
	"moneta/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("broker_fields_only_stick_to_broker_accounts", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewAccountService(env.db)

		bank, err := svc.CreateAccount(env.user.ID, "Checking", "", models.AccountTypeBank, env.usd.ID, "Acme Broker", "123")
		testutil.AssertNoError(t, err)
		if bank.Broker != "" || bank.AccountNumber != "" {
			t.Errorf("bank account kept broker fields: %q %q", bank.Broker, bank.AccountNumber)
		}

		broker, err := svc.CreateAccount(env.user.ID, "Trading", "", models.AccountTypeBroker, env.usd.ID, "Acme Broker", "123")
		testutil.AssertNoError(t, err)
		if broker.Broker != "Acme Broker" || broker.AccountNumber != "123" {
			t.Errorf("broker account lost broker fields: %q %q", broker.Broker, broker.AccountNumber)
		}
	})

	t.Run("requires_a_name", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewAccountService(env.db)

		_, err := svc.CreateAccount(env.user.ID, "", "", models.AccountTypeBank, env.usd.ID, "", "")

		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("requires_a_known_currency", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewAccountService(env.db)

		_, err := svc.CreateAccount(env.user.ID, "Checking", "", models.AccountTypeBank, 99999, "", "")

		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})
}

func TestGetAccountByID(t *testing.T) {
	t.Run("other_users_account_reports_not_found", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewAccountService(env.db)
		other := testutil.CreateTestUserWithEmail(t, env.db, "outsider@example.com")

		_, err := svc.GetAccountByID(other.ID, env.account.ID)

		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("loads_the_currency", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewAccountService(env.db)

		account, err := svc.GetAccountByID(env.user.ID, env.account.ID)
		testutil.AssertNoError(t, err)

		if account.Currency.Code != "USD" {
			t.Errorf("Currency.Code = %q, want USD", account.Currency.Code)
		}
	})
}

func TestDeactivateAccount(t *testing.T) {
	t.Run("keeps_history_but_marks_inactive", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewAccountService(env.db)

		testutil.AssertNoError(t, svc.DeactivateAccount(env.user.ID, env.account.ID))

		var account models.Account
		testutil.AssertNoError(t, env.db.First(&account, env.account.ID).Error)
		if account.IsActive {
			t.Error("account still active after deactivation")
		}
	})
}

func TestUpdateAccount(t *testing.T) {
	t.Run("renames_in_place", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewAccountService(env.db)

		updated, err := svc.UpdateAccount(env.user.ID, env.account.ID, "Renamed", "long-term savings")
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" || updated.Description != "long-term savings" {
			t.Errorf("update not applied: %q %q", updated.Name, updated.Description)
		}
	})

	t.Run("rejects_empty_name", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewAccountService(env.db)

		_, err := svc.UpdateAccount(env.user.ID, env.account.ID, "", "")

		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
