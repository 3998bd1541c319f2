package services

import (
	"testing"
	"time"

	"moneta/internal/pagination"
	"moneta/internal/testutil"
)

func TestRecordPrice(t *testing.T) {
	d := day(2024, time.March, 5)

	t.Run("ticker_is_normalized", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewPriceService(env.db)

		row, err := svc.RecordPrice("  aapl ", env.usd.ID, d, dec("110"))
		testutil.AssertNoError(t, err)

		if row.Ticker != "AAPL" {
			t.Errorf("Ticker = %q, want AAPL", row.Ticker)
		}
		if !row.Date.Equal(d) {
			t.Errorf("Date = %s, want UTC midnight", row.Date)
		}
	})

	t.Run("same_day_record_overwrites", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewPriceService(env.db)

		first, err := svc.RecordPrice("AAPL", env.usd.ID, d, dec("110"))
		testutil.AssertNoError(t, err)
		second, err := svc.RecordPrice("AAPL", env.usd.ID, d.Add(6*time.Hour), dec("112"))
		testutil.AssertNoError(t, err)

		if second.ID != first.ID {
			t.Errorf("expected upsert to reuse row %d, got %d", first.ID, second.ID)
		}
		price, err := svc.PriceOnOrBefore("AAPL", d, env.usd.ID)
		testutil.AssertNoError(t, err)
		assertDecimal(t, "price", price, "112")
	})

	t.Run("empty_ticker_is_rejected", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewPriceService(env.db)

		_, err := svc.RecordPrice("   ", env.usd.ID, d, dec("110"))

		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_price_is_rejected", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewPriceService(env.db)

		_, err := svc.RecordPrice("AAPL", env.usd.ID, d, dec("-1"))

		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestPriceOnOrBefore(t *testing.T) {
	d1 := day(2024, time.March, 1)
	d2 := day(2024, time.March, 5)
	d3 := day(2024, time.March, 9)

	t.Run("picks_latest_on_or_before", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewPriceService(env.db)
		testutil.CreateTestSecurityPrice(t, env.db, "AAPL", env.usd.ID, "100", d1)
		testutil.CreateTestSecurityPrice(t, env.db, "AAPL", env.usd.ID, "105", d2)
		testutil.CreateTestSecurityPrice(t, env.db, "AAPL", env.usd.ID, "120", d3)

		price, err := svc.PriceOnOrBefore("AAPL", day(2024, time.March, 7), env.usd.ID)
		testutil.AssertNoError(t, err)

		assertDecimal(t, "price", price, "105")
	})

	t.Run("currencies_do_not_cross", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewPriceService(env.db)
		eur := testutil.CreateTestCurrency(t, env.db, "EUR")
		testutil.CreateTestSecurityPrice(t, env.db, "AAPL", eur.ID, "95", d1)

		_, err := svc.PriceOnOrBefore("AAPL", d2, env.usd.ID)

		testutil.AssertAppError(t, err, "PRICE_NOT_FOUND")
	})

	t.Run("missing_ticker_is_not_found", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewPriceService(env.db)

		_, err := svc.PriceOnOrBefore("NOPE", d2, env.usd.ID)

		testutil.AssertAppError(t, err, "PRICE_NOT_FOUND")
	})
}

func TestGetPrices(t *testing.T) {
	d1 := day(2024, time.March, 1)
	d2 := day(2024, time.March, 5)

	t.Run("newest_first_per_ticker_and_currency", func(t *testing.T) {
		env := newSnapshotTestEnv(t)
		svc := NewPriceService(env.db)
		testutil.CreateTestSecurityPrice(t, env.db, "AAPL", env.usd.ID, "100", d1)
		testutil.CreateTestSecurityPrice(t, env.db, "AAPL", env.usd.ID, "105", d2)
		testutil.CreateTestSecurityPrice(t, env.db, "MSFT", env.usd.ID, "40", d1)

		resp, err := svc.GetPrices("aapl", env.usd.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if len(resp.Data) != 2 {
			t.Fatalf("expected 2 prices, got %d", len(resp.Data))
		}
		if !resp.Data[0].Date.Equal(d2) {
			t.Errorf("expected newest price first, got %s", resp.Data[0].Date)
		}
	})
}
