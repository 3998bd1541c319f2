package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
)

// EvaluateUnrealizedGains computes mark-to-market profit and its percentage
// for the given open positions. Market value and cost basis are aggregated
// across all tickers before taking the final difference; for short positions
// both totals are negated, since a short profits when the price falls.
//
// A missing price is a hard error. Unrealized gains are part of the persisted
// snapshot and must never be silently approximated as zero.
func EvaluateUnrealizedGains(
	positions map[string]decimal.Decimal,
	costBasis map[string]decimal.Decimal,
	date time.Time,
	currencyID uint,
	prices PriceSource,
) (decimal.Decimal, float64, error) {
	tickers := make([]string, 0, len(positions))
	for ticker, qty := range positions {
		if !qty.IsZero() {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)

	totalMarket := decimal.Zero
	totalBasis := decimal.Zero

	for _, ticker := range tickers {
		qty := positions[ticker]

		price, err := prices.PriceOnOrBefore(ticker, date, currencyID)
		if err != nil {
			return decimal.Zero, 0, apperrors.WithMessage(apperrors.ErrPriceNotFound,
				fmt.Sprintf("No price for %s on or before %s in currency %d", ticker, date.Format("2006-01-02"), currencyID))
		}

		marketValue := price.Mul(qty.Abs())
		basisValue := costBasis[ticker].Mul(qty.Abs())
		if qty.IsNegative() {
			marketValue = marketValue.Neg()
			basisValue = basisValue.Neg()
		}

		totalMarket = totalMarket.Add(marketValue)
		totalBasis = totalBasis.Add(basisValue)
	}

	gain := totalMarket.Sub(totalBasis)
	pct := 0.0
	if !totalBasis.IsZero() {
		pct, _ = gain.Div(totalBasis.Abs()).Mul(decimal.NewFromInt(100)).Float64()
	}
	return gain, pct, nil
}
