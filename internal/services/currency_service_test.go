package services

import (
	"testing"

	"moneta/internal/testutil"
)

func TestCurrencyService(t *testing.T) {
	t.Run("get_by_code_normalizes_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
		testutil.CreateTestCurrency(t, db, "USD")
		svc := NewCurrencyService(db)

		currency, err := svc.GetByCode("  usd ")
		testutil.AssertNoError(t, err)

		if currency.Code != "USD" {
			t.Errorf("Code = %q, want USD", currency.Code)
		}
	})

	t.Run("unknown_code_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
		svc := NewCurrencyService(db)

		_, err := svc.GetByCode("ZZZ")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")

		_, err = svc.GetByID(99999)
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})

	t.Run("list_orders_by_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
		testutil.CreateTestCurrency(t, db, "USD")
		testutil.CreateTestCurrency(t, db, "EUR")
		svc := NewCurrencyService(db)

		currencies, err := svc.List()
		testutil.AssertNoError(t, err)

		if len(currencies) != 2 || currencies[0].Code != "EUR" || currencies[1].Code != "USD" {
			t.Errorf("unexpected ordering: %+v", currencies)
		}
	})
}
