package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// cascade re-runs the one-day update for the start date and every affected
// later date, in strictly ascending order. Each step looks up its "previous"
// snapshot dynamically, so the order is a correctness requirement: a step's
// output is the next step's baseline. Gaps (dates with movements but no
// snapshot row) are merged into the date set so no date is skipped. An empty
// downstream list degenerates to a single one-day update.
func (s *snapshotService) cascade(account *models.Account, start time.Time, downstream []models.FinancialSnapshot) error {
	dates := map[time.Time]bool{start: true}

	for i := range downstream {
		snap := &downstream[i]
		if snap.AccountID != account.ID {
			return apperrors.WithMessage(apperrors.ErrCascadeAccountMismatch,
				fmt.Sprintf("Snapshot %s belongs to account %d, cascade is for account %d",
					snap.ID, snap.AccountID, account.ID))
		}
		dates[models.Day(snap.Date)] = true
	}

	movementDates, err := s.movementDatesFrom(account.ID, start)
	if err != nil {
		return err
	}
	for _, d := range movementDates {
		dates[d] = true
	}

	ordered := make([]time.Time, 0, len(dates))
	for d := range dates {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	s.log.Infow("cascading snapshots",
		"account_id", account.ID,
		"from", start.Format("2006-01-02"),
		"days", len(ordered),
	)

	for _, day := range ordered {
		if err := s.updateDay(account, day); err != nil {
			return err
		}
	}
	return nil
}

// movementDatesFrom collects the distinct calendar dates on or after the
// given date that carry movements of any kind. For conversions, the source
// currency's side shares the row's date, so one date entry covers both.
func (s *snapshotService) movementDatesFrom(accountID uint, from time.Time) ([]time.Time, error) {
	dates := make(map[time.Time]bool)

	cash, err := s.movements.CashMovementsFrom(accountID, from)
	if err != nil {
		return nil, err
	}
	for i := range cash {
		dates[models.Day(cash[i].Date)] = true
	}

	trades, err := s.movements.TradesFrom(accountID, from)
	if err != nil {
		return nil, err
	}
	for i := range trades {
		dates[models.Day(trades[i].Date)] = true
	}

	dividends, err := s.movements.DividendsFrom(accountID, from)
	if err != nil {
		return nil, err
	}
	for i := range dividends {
		dates[models.Day(dividends[i].Date)] = true
	}

	taxes, err := s.movements.DividendTaxesFrom(accountID, from)
	if err != nil {
		return nil, err
	}
	for i := range taxes {
		dates[models.Day(taxes[i].Date)] = true
	}

	options, err := s.movements.OptionTradesFrom(accountID, from)
	if err != nil {
		return nil, err
	}
	for i := range options {
		dates[models.Day(options[i].Date)] = true
	}

	out := make([]time.Time, 0, len(dates))
	for d := range dates {
		out = append(out, d)
	}
	return out, nil
}

// earliestActivity returns the first movement or snapshot date of an account.
func (s *snapshotService) earliestActivity(accountID uint) (time.Time, bool, error) {
	movementDates, err := s.movementDatesFrom(accountID, time.Time{})
	if err != nil {
		return time.Time{}, false, err
	}

	var earliest time.Time
	found := false
	for _, d := range movementDates {
		if !found || d.Before(earliest) {
			earliest = d
			found = true
		}
	}

	var snap models.FinancialSnapshot
	err = s.db.Where("account_id = ?", accountID).Order("date ASC").First(&snap).Error
	switch {
	case err == nil:
		d := models.Day(snap.Date)
		if !found || d.Before(earliest) {
			earliest = d
			found = true
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return time.Time{}, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return earliest, found, nil
}
