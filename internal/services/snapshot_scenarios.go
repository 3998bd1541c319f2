package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// scenarioInput carries everything the resolver needs to decide the fate of
// one (account, currency, date) triple: the day's movements (nil when none),
// the most recent snapshot strictly before the date (nil when none), and the
// snapshot already stored for exactly this date (nil when none).
type scenarioInput struct {
	account     *models.Account
	currencyID  uint
	date        time.Time
	movements   *CurrencyMovementData
	previous    *models.FinancialSnapshot
	existing    *models.FinancialSnapshot
	openingBook *PositionBook
	openOptions bool
}

// resolveCurrencyDay dispatches one (currency, date) through the eight-case
// decision matrix keyed on (has movements, has previous, has existing). It
// returns the snapshot to persist, or nil when the case is a no-op. The
// caller links the result to the day's grouping row before saving. Update
// paths preserve the existing record's identity; all other paths produce a
// new record.
func (s *snapshotService) resolveCurrencyDay(in scenarioInput) (*models.FinancialSnapshot, error) {
	if err := s.validateScenario(in); err != nil {
		return nil, err
	}

	hasMovements := !in.movements.Empty()
	hasPrevious := in.previous != nil
	hasExisting := in.existing != nil

	switch {
	case hasMovements && hasPrevious && !hasExisting:
		// New day on top of history: previous baseline + the day's metrics.
		return s.computeSnapshot(in, in.previous, nil)

	case hasMovements && !hasPrevious && !hasExisting:
		// First activity ever for this currency: the day's metrics are the
		// cumulative baseline.
		return s.computeSnapshot(in, nil, nil)

	case hasMovements && hasPrevious && hasExisting:
		// Revision: recompute the stored record from the previous baseline
		// plus the full movement set for this date, in place.
		return s.computeSnapshot(in, in.previous, in.existing)

	case hasMovements && !hasPrevious && hasExisting:
		// Revision without history: the day's metrics replace the stored
		// cumulative totals, in place.
		return s.computeSnapshot(in, nil, in.existing)

	case !hasMovements && hasPrevious && !hasExisting:
		// No activity day: carry the previous snapshot forward so date
		// lookups still resolve. Positions are unchanged, so unrealized
		// figures carry over as well.
		snap := carryForward(in.previous, in.date)
		return &snap, nil

	case !hasMovements && !hasPrevious && !hasExisting:
		// Nothing to do: the currency has neither history nor activity.
		return nil, nil

	case !hasMovements && hasPrevious && hasExisting:
		// Consistency check: with no new movements the stored record must
		// equal the previous one. Overwrite when it drifted.
		if cumulativeFieldsEqual(in.existing, in.previous) {
			return nil, nil
		}
		s.log.Warnw("snapshot drift corrected",
			"account_id", in.account.ID,
			"currency_id", in.currencyID,
			"date", in.date.Format("2006-01-02"),
		)
		snap := carryForward(in.previous, in.date)
		snap.ID = in.existing.ID
		snap.CreatedAt = in.existing.CreatedAt
		return &snap, nil

	default: // !hasMovements && !hasPrevious && hasExisting
		// Orphan: a stored record with no supporting history and no
		// movements resets to zero values.
		snap := models.ZeroSnapshot(in.account.ID, in.currencyID, in.date, in.existing.AccountSnapshotID)
		snap.ID = in.existing.ID
		snap.CreatedAt = in.existing.CreatedAt
		return &snap, nil
	}
}

// validateScenario raises consistency violations before any field math, so
// failures are attributable to a specific (account, currency, date) triple.
func (s *snapshotService) validateScenario(in scenarioInput) error {
	if prev := in.previous; prev != nil {
		if prev.AccountID != in.account.ID || prev.CurrencyID != in.currencyID {
			return apperrors.WithMessage(apperrors.ErrSnapshotMismatch,
				fmt.Sprintf("Previous snapshot %s belongs to account %d currency %d, expected account %d currency %d",
					prev.ID, prev.AccountID, prev.CurrencyID, in.account.ID, in.currencyID))
		}
		if !models.Day(prev.Date).Before(in.date) {
			return apperrors.WithMessage(apperrors.ErrSnapshotChronology,
				fmt.Sprintf("Previous snapshot %s dated %s is not before target date %s",
					prev.ID, prev.Date.Format("2006-01-02"), in.date.Format("2006-01-02")))
		}
	}
	if ex := in.existing; ex != nil {
		if ex.AccountID != in.account.ID || ex.CurrencyID != in.currencyID {
			return apperrors.WithMessage(apperrors.ErrSnapshotMismatch,
				fmt.Sprintf("Existing snapshot %s belongs to account %d currency %d, expected account %d currency %d",
					ex.ID, ex.AccountID, ex.CurrencyID, in.account.ID, in.currencyID))
		}
		if !models.Day(ex.Date).Equal(in.date) {
			return apperrors.WithMessage(apperrors.ErrSnapshotMismatch,
				fmt.Sprintf("Existing snapshot %s dated %s does not match target date %s",
					ex.ID, ex.Date.Format("2006-01-02"), in.date.Format("2006-01-02")))
		}
	}
	return nil
}

// computeSnapshot derives the day's metrics, adds them to the baseline (nil
// means a zero baseline), and re-evaluates unrealized gains from the
// resulting open positions. When existing is non-nil its identity is kept.
func (s *snapshotService) computeSnapshot(in scenarioInput, baseline, existing *models.FinancialSnapshot) (*models.FinancialSnapshot, error) {
	metrics := CalculateMetrics(*in.movements, in.date, in.openingBook)

	base := models.ZeroSnapshot(in.account.ID, in.currencyID, in.date, "")
	if baseline != nil {
		base = *baseline
	}

	snap := models.FinancialSnapshot{
		AccountID:         in.account.ID,
		CurrencyID:        in.currencyID,
		Date:              in.date,
		Deposited:         base.Deposited.Add(metrics.Deposited),
		Withdrawn:         base.Withdrawn.Add(metrics.Withdrawn),
		Invested:          base.Invested.Add(metrics.Invested),
		Commissions:       base.Commissions.Add(metrics.Commissions),
		Fees:              base.Fees.Add(metrics.Fees),
		DividendsReceived: base.DividendsReceived.Add(metrics.DividendsReceived),
		OptionsIncome:     base.OptionsIncome.Add(metrics.OptionsIncome),
		OtherIncome:       base.OtherIncome.Add(metrics.OtherIncome),
		RealizedGains:     base.RealizedGains.Add(metrics.RealizedGains),
		MovementCount:     base.MovementCount + metrics.MovementCount,
		HasOpenTrades:     len(metrics.OpenPositions) > 0 || in.openOptions,
	}
	snap.RealizedGainsPct = gainPct(snap.RealizedGains, snap.Invested)

	unrealized, unrealizedPct, err := EvaluateUnrealizedGains(
		metrics.OpenPositions, metrics.CostBasis, in.date, in.currencyID, s.prices)
	if err != nil {
		return nil, err
	}
	snap.UnrealizedGains = unrealized
	snap.UnrealizedGainsPct = unrealizedPct

	if existing != nil {
		snap.ID = existing.ID
		snap.CreatedAt = existing.CreatedAt
	}
	return &snap, nil
}

// carryForward copies a snapshot's cumulative state onto a later date with a
// fresh identity. Parent linkage is assigned by the caller.
func carryForward(prev *models.FinancialSnapshot, date time.Time) models.FinancialSnapshot {
	snap := *prev
	snap.ID = ""
	snap.CreatedAt = time.Time{}
	snap.UpdatedAt = time.Time{}
	snap.AccountSnapshotID = ""
	snap.Date = date
	snap.RealizedGainsPct = gainPct(snap.RealizedGains, snap.Invested)
	return snap
}

// cumulativeFieldsEqual compares the cumulative monetary fields of two
// snapshots, ignoring identity, date, and linkage.
func cumulativeFieldsEqual(a, b *models.FinancialSnapshot) bool {
	return a.Deposited.Equal(b.Deposited) &&
		a.Withdrawn.Equal(b.Withdrawn) &&
		a.Invested.Equal(b.Invested) &&
		a.Commissions.Equal(b.Commissions) &&
		a.Fees.Equal(b.Fees) &&
		a.DividendsReceived.Equal(b.DividendsReceived) &&
		a.OptionsIncome.Equal(b.OptionsIncome) &&
		a.OtherIncome.Equal(b.OtherIncome) &&
		a.RealizedGains.Equal(b.RealizedGains) &&
		a.UnrealizedGains.Equal(b.UnrealizedGains) &&
		a.MovementCount == b.MovementCount &&
		a.HasOpenTrades == b.HasOpenTrades
}

// gainPct returns gains / invested * 100, or 0 when nothing is invested.
func gainPct(gains, invested decimal.Decimal) float64 {
	if invested.IsZero() {
		return 0
	}
	pct, _ := gains.Div(invested).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
