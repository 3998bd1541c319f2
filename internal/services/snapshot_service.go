package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/logger"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// snapshotService owns the snapshot engine: scenario resolution, cascading,
// and parent rollups. Calling layers reach it only through HandleAccountChange
// and HandleNewAccount (plus read queries for the API).
type snapshotService struct {
	db        *gorm.DB
	accounts  AccountServicer
	movements MovementServicer
	prices    PriceSource
	log       *zap.SugaredLogger
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB, accounts AccountServicer, movements MovementServicer, prices PriceSource) SnapshotServicer {
	return &snapshotService{
		db:        db,
		accounts:  accounts,
		movements: movements,
		prices:    prices,
		log:       logger.Get(),
	}
}

// HandleAccountChange recomputes the snapshot state of an account from the
// given date forward. It is the single mutation entry point: movement saves,
// edits, and deletes all funnel through here with the affected date.
func (s *snapshotService) HandleAccountChange(accountID uint, date time.Time) error {
	account, err := s.getAccount(accountID)
	if err != nil {
		return err
	}

	day := models.Day(date)

	var downstream []models.FinancialSnapshot
	if err := s.db.Where("account_id = ? AND date >= ?", accountID, day).
		Find(&downstream).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.cascade(account, day, downstream)
}

// HandleNewAccount seeds a zero-value snapshot for a freshly created account
// in its default currency, so date lookups resolve before any movement lands.
func (s *snapshotService) HandleNewAccount(account *models.Account) error {
	day := models.Day(time.Now())
	if !account.CreatedAt.IsZero() {
		day = models.Day(account.CreatedAt)
	}

	parentID, err := s.ensureAccountSnapshot(account.ID, day)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.FinancialSnapshot{}).
		Where("account_id = ? AND currency_id = ? AND date = ?", account.ID, account.CurrencyID, day).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil
	}

	snap := models.ZeroSnapshot(account.ID, account.CurrencyID, day, parentID)
	if err := s.db.Create(&snap).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.log.Infow("seeded account snapshot",
		"account_id", account.ID,
		"currency_id", account.CurrencyID,
		"date", day.Format("2006-01-02"),
	)
	return nil
}

// RecomputeAccount rebuilds every snapshot of an account from its earliest
// movement or snapshot date forward. Used by the pipeline recompute endpoint.
func (s *snapshotService) RecomputeAccount(accountID uint) error {
	account, err := s.getAccount(accountID)
	if err != nil {
		return err
	}

	start, ok, err := s.earliestActivity(accountID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var all []models.FinancialSnapshot
	if err := s.db.Where("account_id = ? AND date >= ?", accountID, start).
		Find(&all).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.cascade(account, start, all)
}

// GetAccountSnapshots returns paginated snapshots for an account, optionally
// restricted to one currency and a date range.
func (s *snapshotService) GetAccountSnapshots(
	userID, accountID uint,
	currencyID *uint,
	from, to time.Time,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.FinancialSnapshot], error) {
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.FinancialSnapshot{}).Where("account_id = ?", accountID)
	if currencyID != nil {
		base = base.Where("currency_id = ?", *currencyID)
	}
	if !from.IsZero() {
		base = base.Where("date >= ?", models.Day(from))
	}
	if !to.IsZero() {
		base = base.Where("date <= ?", models.Day(to))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.FinancialSnapshot
	if err := base.Order("date ASC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountRollup returns the account-level snapshot group valid on the
// given date: the nearest grouping row on or before it, with its per-currency
// children.
func (s *snapshotService) GetAccountRollup(userID, accountID uint, date time.Time) (*AccountRollup, error) {
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}

	var parent models.AccountSnapshot
	err := s.db.Preload("Snapshots").
		Where("account_id = ? AND date <= ?", accountID, models.Day(date)).
		Order("date DESC").
		First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSnapshotNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &AccountRollup{
		AccountID: accountID,
		Date:      parent.Date,
		Snapshots: parent.Snapshots,
	}, nil
}

// updateDay runs the scenario resolver for every currency that has movements
// on the given date, a prior snapshot, or a stored snapshot for the date.
func (s *snapshotService) updateDay(account *models.Account, day time.Time) error {
	// Trades and options need full history for position state and for the
	// open-option check; the other kinds only contribute day totals.
	allTrades, err := s.movements.TradesFrom(account.ID, time.Time{})
	if err != nil {
		return err
	}
	allOptions, err := s.movements.OptionTradesFrom(account.ID, time.Time{})
	if err != nil {
		return err
	}
	cash, err := s.movements.CashMovementsFrom(account.ID, day)
	if err != nil {
		return err
	}
	dividends, err := s.movements.DividendsFrom(account.ID, day)
	if err != nil {
		return err
	}
	taxes, err := s.movements.DividendTaxesFrom(account.ID, day)
	if err != nil {
		return err
	}

	buckets := groupDayMovements(day, cash, allTrades, dividends, taxes, allOptions)

	currencies, err := s.currenciesInScope(account.ID, day, buckets)
	if err != nil {
		return err
	}

	// The grouping row is created when the first currency snapshot is about
	// to persist, so a day where every currency resolves to a no-op leaves
	// no empty parent behind.
	parentID := ""
	for _, currencyID := range currencies {
		previous, err := s.previousSnapshot(account.ID, currencyID, day)
		if err != nil {
			return err
		}
		existing, err := s.existingSnapshot(account.ID, currencyID, day)
		if err != nil {
			return err
		}

		in := scenarioInput{
			account:     account,
			currencyID:  currencyID,
			date:        day,
			movements:   buckets[currencyID],
			previous:    previous,
			existing:    existing,
			openingBook: BuildPositionBook(tradesBefore(allTrades, currencyID, day)),
			openOptions: hasOpenOptions(allOptions, currencyID, day),
		}

		snap, err := s.resolveCurrencyDay(in)
		if err != nil {
			return err
		}
		if snap == nil {
			continue
		}
		if parentID == "" {
			if parentID, err = s.ensureAccountSnapshot(account.ID, day); err != nil {
				return err
			}
		}
		snap.AccountSnapshotID = parentID
		if err := s.db.Save(snap).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return nil
}

// getAccount loads an account by ID, failing with the offending key when it
// does not exist.
func (s *snapshotService) getAccount(accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound,
				fmt.Sprintf("Account %d not found", accountID))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// ensureAccountSnapshot finds or creates the per-account grouping row for a
// date and returns its ID.
func (s *snapshotService) ensureAccountSnapshot(accountID uint, day time.Time) (string, error) {
	var parent models.AccountSnapshot
	err := s.db.Where("account_id = ? AND date = ?", accountID, day).First(&parent).Error
	if err == nil {
		return parent.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	parent = models.AccountSnapshot{AccountID: accountID, Date: day}
	if err := s.db.Create(&parent).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return parent.ID, nil
}

// previousSnapshot returns the most recent snapshot strictly before the date,
// or nil when none exists.
func (s *snapshotService) previousSnapshot(accountID, currencyID uint, day time.Time) (*models.FinancialSnapshot, error) {
	var snap models.FinancialSnapshot
	err := s.db.Where("account_id = ? AND currency_id = ? AND date < ?", accountID, currencyID, day).
		Order("date DESC").
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &snap, nil
}

// existingSnapshot returns the snapshot stored for exactly this date, or nil.
func (s *snapshotService) existingSnapshot(accountID, currencyID uint, day time.Time) (*models.FinancialSnapshot, error) {
	var snap models.FinancialSnapshot
	err := s.db.Where("account_id = ? AND currency_id = ? AND date = ?", accountID, currencyID, day).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &snap, nil
}

// currenciesInScope returns, sorted, every currency that has movements on the
// date, a snapshot before it, or a snapshot stored for it.
func (s *snapshotService) currenciesInScope(accountID uint, day time.Time, buckets map[uint]*CurrencyMovementData) ([]uint, error) {
	seen := make(map[uint]bool, len(buckets))
	for currencyID := range buckets {
		seen[currencyID] = true
	}

	var before []uint
	if err := s.db.Model(&models.FinancialSnapshot{}).
		Where("account_id = ? AND date < ?", accountID, day).
		Distinct("currency_id").
		Pluck("currency_id", &before).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, id := range before {
		seen[id] = true
	}

	var at []uint
	if err := s.db.Model(&models.FinancialSnapshot{}).
		Where("account_id = ? AND date = ?", accountID, day).
		Distinct("currency_id").
		Pluck("currency_id", &at).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, id := range at {
		seen[id] = true
	}

	return sortedCurrencyIDs(seen), nil
}
