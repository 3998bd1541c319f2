package services

import (
	"sort"
	"time"

	"moneta/internal/models"
)

// groupDayMovements buckets the movements that fall on the given calendar
// date by currency. Conversions land in both the target currency's bucket
// (via CurrencyID) and the source currency's bucket (via FromCurrencyID), so
// each side of the exchange sees the row.
func groupDayMovements(
	day time.Time,
	cash []models.CashMovement,
	trades []models.Trade,
	dividends []models.Dividend,
	taxes []models.DividendTax,
	options []models.OptionTrade,
) map[uint]*CurrencyMovementData {
	buckets := make(map[uint]*CurrencyMovementData)
	bucket := func(currencyID uint) *CurrencyMovementData {
		if b, ok := buckets[currencyID]; ok {
			return b
		}
		b := &CurrencyMovementData{CurrencyID: currencyID}
		buckets[currencyID] = b
		return b
	}

	for i := range cash {
		m := &cash[i]
		if !models.Day(m.Date).Equal(day) {
			continue
		}
		b := bucket(m.CurrencyID)
		b.CashMovements = append(b.CashMovements, *m)
		if m.Type == models.CashMovementConversion && m.FromCurrencyID != nil && *m.FromCurrencyID != m.CurrencyID {
			src := bucket(*m.FromCurrencyID)
			src.CashMovements = append(src.CashMovements, *m)
		}
	}

	for i := range trades {
		t := &trades[i]
		if !models.Day(t.Date).Equal(day) {
			continue
		}
		b := bucket(t.CurrencyID)
		b.Trades = append(b.Trades, *t)
	}

	for i := range dividends {
		d := &dividends[i]
		if !models.Day(d.Date).Equal(day) {
			continue
		}
		b := bucket(d.CurrencyID)
		b.Dividends = append(b.Dividends, *d)
	}

	for i := range taxes {
		t := &taxes[i]
		if !models.Day(t.Date).Equal(day) {
			continue
		}
		b := bucket(t.CurrencyID)
		b.DividendTaxes = append(b.DividendTaxes, *t)
	}

	for i := range options {
		o := &options[i]
		if !models.Day(o.Date).Equal(day) {
			continue
		}
		b := bucket(o.CurrencyID)
		b.OptionTrades = append(b.OptionTrades, *o)
	}

	return buckets
}

// tradesBefore returns the trades of one currency dated strictly before the
// given date, for building the opening position book.
func tradesBefore(trades []models.Trade, currencyID uint, day time.Time) []models.Trade {
	var out []models.Trade
	for i := range trades {
		t := &trades[i]
		if t.CurrencyID == currencyID && models.Day(t.Date).Before(day) {
			out = append(out, *t)
		}
	}
	return out
}

// hasOpenOptions reports whether any opening option trade of the currency,
// dated on or before the day, expires strictly after it.
func hasOpenOptions(options []models.OptionTrade, currencyID uint, day time.Time) bool {
	for i := range options {
		o := &options[i]
		if o.CurrencyID != currencyID || models.Day(o.Date).After(day) {
			continue
		}
		if o.IsOpening() && o.ExpirationDate.After(day) {
			return true
		}
	}
	return false
}

// sortedCurrencyIDs returns the keys of the set in ascending order, so
// per-currency processing is deterministic.
func sortedCurrencyIDs(set map[uint]bool) []uint {
	out := make([]uint, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
