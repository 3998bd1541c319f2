package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/models"
)

// CurrencyMovementData groups all movements of one currency for one calendar
// date. It is the unit of work passed into CalculateMetrics. A conversion
// movement appears in the bucket of both its target and its source currency.
type CurrencyMovementData struct {
	CurrencyID    uint
	CashMovements []models.CashMovement
	Trades        []models.Trade
	Dividends     []models.Dividend
	DividendTaxes []models.DividendTax
	OptionTrades  []models.OptionTrade
}

// Count returns the total number of movements across all five kinds.
func (d *CurrencyMovementData) Count() int {
	return len(d.CashMovements) + len(d.Trades) + len(d.Dividends) +
		len(d.DividendTaxes) + len(d.OptionTrades)
}

// Empty reports whether the group holds no movements at all.
func (d *CurrencyMovementData) Empty() bool {
	return d == nil || d.Count() == 0
}

// CalculatedFinancialMetrics is the result of folding one currency's
// movements for one date. All monetary fields are day deltas, to be added to
// the previous snapshot's cumulative totals. OpenPositions and CostBasis
// reflect the full position state after the day's trades, including positions
// carried in through the opening book.
type CalculatedFinancialMetrics struct {
	Deposited         decimal.Decimal
	Withdrawn         decimal.Decimal
	Fees              decimal.Decimal
	Commissions       decimal.Decimal
	OtherIncome       decimal.Decimal
	Invested          decimal.Decimal
	RealizedGains     decimal.Decimal
	DividendsReceived decimal.Decimal
	OptionsIncome     decimal.Decimal
	MovementCount     int

	OpenPositions    map[string]decimal.Decimal // ticker -> signed quantity
	CostBasis        map[string]decimal.Decimal // ticker -> average cost per share
	HasOpenPositions bool
}

// PositionBook tracks per-ticker running share counts and total cost basis.
// The quantity is signed: positive for long positions, negative for short.
// The basis magnitude holds acquisition cost for longs and sale proceeds for
// shorts; average basis per share is always basis / |quantity|.
type PositionBook struct {
	qty   map[string]decimal.Decimal
	basis map[string]decimal.Decimal
}

// NewPositionBook returns an empty position book.
func NewPositionBook() *PositionBook {
	return &PositionBook{
		qty:   make(map[string]decimal.Decimal),
		basis: make(map[string]decimal.Decimal),
	}
}

// BuildPositionBook replays trades in chronological order into a fresh book.
// Trades on the same date replay in insertion (ID) order.
func BuildPositionBook(trades []models.Trade) *PositionBook {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	book := NewPositionBook()
	for i := range sorted {
		book.Apply(&sorted[i])
	}
	return book
}

// Clone returns an independent copy of the book.
func (b *PositionBook) Clone() *PositionBook {
	clone := NewPositionBook()
	for t, q := range b.qty {
		clone.qty[t] = q
	}
	for t, c := range b.basis {
		clone.basis[t] = c
	}
	return clone
}

// Quantity returns the signed open quantity for a ticker.
func (b *PositionBook) Quantity(ticker string) decimal.Decimal {
	return b.qty[ticker]
}

// AverageCost returns the average basis per share for a ticker, or zero when
// no position is open.
func (b *PositionBook) AverageCost(ticker string) decimal.Decimal {
	q := b.qty[ticker]
	if q.IsZero() {
		return decimal.Zero
	}
	return b.basis[ticker].Div(q.Abs())
}

// Positions returns the map of tickers with non-zero open quantity.
func (b *PositionBook) Positions() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for t, q := range b.qty {
		if !q.IsZero() {
			out[t] = q
		}
	}
	return out
}

// CostBases returns the map of average cost per share for open tickers.
func (b *PositionBook) CostBases() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for t, q := range b.qty {
		if !q.IsZero() {
			out[t] = b.AverageCost(t)
		}
	}
	return out
}

// HasOpen reports whether any ticker holds a non-zero position.
func (b *PositionBook) HasOpen() bool {
	for _, q := range b.qty {
		if !q.IsZero() {
			return true
		}
	}
	return false
}

// Apply folds one trade into the book and returns the realized gain and the
// newly invested amount it produced. Closing reduces the position by at most
// the remaining quantity; a buy against a short covers the short first and
// opens a long with any remainder.
func (b *PositionBook) Apply(t *models.Trade) (realized, invested decimal.Decimal) {
	cur := b.qty[t.Ticker]
	q := t.Quantity

	switch t.Type {
	case models.TradeBuy:
		if cur.IsNegative() {
			cover := decimal.Min(q, cur.Neg())
			realized = realized.Add(b.close(t.Ticker, cover, t.Price))
			q = q.Sub(cover)
		}
		if q.IsPositive() {
			invested = q.Mul(t.Price)
			b.open(t.Ticker, q, t.Price)
		}

	case models.TradeSellToOpen:
		invested = q.Mul(t.Price)
		b.open(t.Ticker, q.Neg(), t.Price)

	case models.TradeClose:
		if cur.IsZero() {
			return realized, invested
		}
		closeQty := decimal.Min(q, cur.Abs())
		realized = realized.Add(b.close(t.Ticker, closeQty, t.Price))
	}

	return realized, invested
}

// open adds signed quantity at the given price, accumulating basis.
func (b *PositionBook) open(ticker string, signedQty, price decimal.Decimal) {
	b.qty[ticker] = b.qty[ticker].Add(signedQty)
	b.basis[ticker] = b.basis[ticker].Add(signedQty.Abs().Mul(price))
}

// close removes closeQty shares from the current position at the given price
// and returns the realized gain. For longs the gain is proceeds minus the
// closed portion's average cost; for shorts the formula is mirrored, since a
// short profits when the covering price is below the average sale price.
func (b *PositionBook) close(ticker string, closeQty, price decimal.Decimal) decimal.Decimal {
	cur := b.qty[ticker]
	avg := b.basis[ticker].Div(cur.Abs())
	closedBasis := closeQty.Mul(avg)
	proceeds := closeQty.Mul(price)

	var realized decimal.Decimal
	if cur.IsPositive() {
		realized = proceeds.Sub(closedBasis)
		b.qty[ticker] = cur.Sub(closeQty)
	} else {
		realized = closedBasis.Sub(proceeds)
		b.qty[ticker] = cur.Add(closeQty)
	}
	b.basis[ticker] = b.basis[ticker].Sub(closedBasis)

	if b.qty[ticker].IsZero() {
		delete(b.qty, ticker)
		delete(b.basis, ticker)
	}
	return realized
}

// CalculateMetrics folds one currency's movements for one date into a
// CalculatedFinancialMetrics value. The opening book carries the position
// state from all trades strictly before the target date, so closing trades
// realize gains against the correct historical cost basis. The fold never
// mutates its inputs; a nil opening book is treated as empty.
func CalculateMetrics(data CurrencyMovementData, targetDate time.Time, opening *PositionBook) CalculatedFinancialMetrics {
	book := NewPositionBook()
	if opening != nil {
		book = opening.Clone()
	}

	m := CalculatedFinancialMetrics{
		Deposited:         decimal.Zero,
		Withdrawn:         decimal.Zero,
		Fees:              decimal.Zero,
		Commissions:       decimal.Zero,
		OtherIncome:       decimal.Zero,
		Invested:          decimal.Zero,
		RealizedGains:     decimal.Zero,
		DividendsReceived: decimal.Zero,
		OptionsIncome:     decimal.Zero,
		MovementCount:     data.Count(),
	}

	foldCashMovements(&m, data)
	foldTrades(&m, data.Trades, book)
	foldDividends(&m, data.Dividends, data.DividendTaxes)
	openOptions := foldOptionTrades(&m, data.OptionTrades, targetDate)

	m.OpenPositions = book.Positions()
	m.CostBasis = book.CostBases()
	m.HasOpenPositions = book.HasOpen() || openOptions

	return m
}

func foldCashMovements(m *CalculatedFinancialMetrics, data CurrencyMovementData) {
	for i := range data.CashMovements {
		mv := &data.CashMovements[i]
		switch mv.Type {
		case models.CashMovementDeposit:
			m.Deposited = m.Deposited.Add(mv.Amount)
		case models.CashMovementWithdrawal:
			m.Withdrawn = m.Withdrawn.Add(mv.Amount)
		case models.CashMovementFee, models.CashMovementInterestPaid:
			m.Fees = m.Fees.Add(mv.Amount)
		case models.CashMovementInterestGained:
			m.OtherIncome = m.OtherIncome.Add(mv.Amount)
		case models.CashMovementACATTransfer:
			// Signed: incoming transfers deposit, outgoing withdraw.
			if mv.Amount.IsNegative() {
				m.Withdrawn = m.Withdrawn.Add(mv.Amount.Neg())
			} else {
				m.Deposited = m.Deposited.Add(mv.Amount)
			}
		case models.CashMovementConversion:
			// One row affects two currencies: the target receives Amount,
			// the source gives up AmountChanged.
			if mv.CurrencyID == data.CurrencyID {
				m.Deposited = m.Deposited.Add(mv.Amount)
			}
			if mv.FromCurrencyID != nil && *mv.FromCurrencyID == data.CurrencyID && mv.AmountChanged != nil {
				m.Withdrawn = m.Withdrawn.Add(*mv.AmountChanged)
			}
		}
	}
}

func foldTrades(m *CalculatedFinancialMetrics, trades []models.Trade, book *PositionBook) {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for i := range sorted {
		t := &sorted[i]
		realized, invested := book.Apply(t)
		m.RealizedGains = m.RealizedGains.Add(realized)
		m.Invested = m.Invested.Add(invested)
		m.Commissions = m.Commissions.Add(t.Commission)
	}
}

func foldDividends(m *CalculatedFinancialMetrics, dividends []models.Dividend, taxes []models.DividendTax) {
	for i := range dividends {
		m.DividendsReceived = m.DividendsReceived.Add(dividends[i].Amount)
	}
	for i := range taxes {
		m.DividendsReceived = m.DividendsReceived.Sub(taxes[i].Amount)
	}
}

// foldOptionTrades folds option premiums and reports whether any option
// opened here is still open, i.e. expires strictly after the target date.
func foldOptionTrades(m *CalculatedFinancialMetrics, options []models.OptionTrade, targetDate time.Time) bool {
	open := false
	for i := range options {
		o := &options[i]
		switch o.Type {
		case models.OptionSellToOpen:
			m.OptionsIncome = m.OptionsIncome.Add(o.Premium)
		case models.OptionBuyToOpen:
			m.Invested = m.Invested.Add(o.Premium)
		case models.OptionBuyToClose:
			m.RealizedGains = m.RealizedGains.Sub(o.Premium)
		case models.OptionSellToClose:
			m.RealizedGains = m.RealizedGains.Add(o.Premium)
		}
		m.Commissions = m.Commissions.Add(o.Commission)

		if o.IsOpening() && o.ExpirationDate.After(targetDate) {
			open = true
		}
	}
	return open
}
