package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// movementService is the movement repository. Movements are append-only: they
// are created, listed, and deleted, never edited in place. An edit is modeled
// by the caller as delete plus create, each of which triggers a snapshot
// cascade for its date.
type movementService struct {
	db       *gorm.DB
	accounts AccountServicer
}

// NewMovementService creates a new MovementServicer.
func NewMovementService(db *gorm.DB, accounts AccountServicer) MovementServicer {
	return &movementService{db: db, accounts: accounts}
}

// CreateCashMovement stores a cash movement after validating ownership and
// conversion completeness.
func (s *movementService) CreateCashMovement(userID uint, movement *models.CashMovement) (*models.CashMovement, error) {
	if _, err := s.accounts.GetAccountByID(userID, movement.AccountID); err != nil {
		return nil, err
	}
	if !movement.Type.Valid() {
		return nil, apperrors.ErrInvalidMovementType
	}
	if movement.Type == models.CashMovementConversion {
		if movement.FromCurrencyID == nil || movement.AmountChanged == nil {
			return nil, apperrors.ErrConversionIncomplete
		}
	}
	movement.Date = models.Day(movement.Date)
	if err := s.db.Create(movement).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return movement, nil
}

// CreateTrade stores a stock trade on a broker account.
func (s *movementService) CreateTrade(userID uint, trade *models.Trade) (*models.Trade, error) {
	if err := s.requireBrokerAccount(userID, trade.AccountID); err != nil {
		return nil, err
	}
	if !trade.Quantity.IsPositive() || trade.Price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Trade quantity must be positive and price non-negative")
	}
	trade.Date = models.Day(trade.Date)
	if err := s.db.Create(trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return trade, nil
}

// CreateDividend stores a gross dividend payment.
func (s *movementService) CreateDividend(userID uint, dividend *models.Dividend) (*models.Dividend, error) {
	if err := s.requireBrokerAccount(userID, dividend.AccountID); err != nil {
		return nil, err
	}
	dividend.Date = models.Day(dividend.Date)
	if err := s.db.Create(dividend).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return dividend, nil
}

// CreateDividendTax stores tax withheld from a dividend.
func (s *movementService) CreateDividendTax(userID uint, tax *models.DividendTax) (*models.DividendTax, error) {
	if err := s.requireBrokerAccount(userID, tax.AccountID); err != nil {
		return nil, err
	}
	tax.Date = models.Day(tax.Date)
	if err := s.db.Create(tax).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tax, nil
}

// CreateOptionTrade stores an option trade.
func (s *movementService) CreateOptionTrade(userID uint, trade *models.OptionTrade) (*models.OptionTrade, error) {
	if err := s.requireBrokerAccount(userID, trade.AccountID); err != nil {
		return nil, err
	}
	if trade.Contracts <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Option trade must have at least one contract")
	}
	trade.Date = models.Day(trade.Date)
	trade.ExpirationDate = models.Day(trade.ExpirationDate)
	if err := s.db.Create(trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return trade, nil
}

// DeleteCashMovement removes a cash movement and returns it, so the caller
// can cascade from its date.
func (s *movementService) DeleteCashMovement(userID, id uint) (*models.CashMovement, error) {
	var movement models.CashMovement
	if err := s.findOwned(userID, id, &movement); err != nil {
		return nil, err
	}
	if err := s.db.Delete(&movement).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &movement, nil
}

// DeleteTrade removes a trade and returns it.
func (s *movementService) DeleteTrade(userID, id uint) (*models.Trade, error) {
	var trade models.Trade
	if err := s.findOwned(userID, id, &trade); err != nil {
		return nil, err
	}
	if err := s.db.Delete(&trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trade, nil
}

// DeleteDividend removes a dividend and returns it.
func (s *movementService) DeleteDividend(userID, id uint) (*models.Dividend, error) {
	var dividend models.Dividend
	if err := s.findOwned(userID, id, &dividend); err != nil {
		return nil, err
	}
	if err := s.db.Delete(&dividend).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &dividend, nil
}

// DeleteDividendTax removes a dividend tax and returns it.
func (s *movementService) DeleteDividendTax(userID, id uint) (*models.DividendTax, error) {
	var tax models.DividendTax
	if err := s.findOwned(userID, id, &tax); err != nil {
		return nil, err
	}
	if err := s.db.Delete(&tax).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tax, nil
}

// DeleteOptionTrade removes an option trade and returns it.
func (s *movementService) DeleteOptionTrade(userID, id uint) (*models.OptionTrade, error) {
	var trade models.OptionTrade
	if err := s.findOwned(userID, id, &trade); err != nil {
		return nil, err
	}
	if err := s.db.Delete(&trade).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trade, nil
}

// GetCashMovements returns a paginated list for an account.
func (s *movementService) GetCashMovements(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CashMovement], error) {
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}
	return listMovements[models.CashMovement](s.db, accountID, page)
}

// GetTrades returns a paginated list for an account.
func (s *movementService) GetTrades(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error) {
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}
	return listMovements[models.Trade](s.db, accountID, page)
}

// GetDividends returns a paginated list for an account.
func (s *movementService) GetDividends(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Dividend], error) {
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}
	return listMovements[models.Dividend](s.db, accountID, page)
}

// GetDividendTaxes returns a paginated list for an account.
func (s *movementService) GetDividendTaxes(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.DividendTax], error) {
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}
	return listMovements[models.DividendTax](s.db, accountID, page)
}

// GetOptionTrades returns a paginated list for an account.
func (s *movementService) GetOptionTrades(userID, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[models.OptionTrade], error) {
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}
	return listMovements[models.OptionTrade](s.db, accountID, page)
}

// CashMovementsFrom returns all cash movements dated on or after from.
// A zero from returns the full history.
func (s *movementService) CashMovementsFrom(accountID uint, from time.Time) ([]models.CashMovement, error) {
	return movementsFrom[models.CashMovement](s.db, accountID, from)
}

// TradesFrom returns all trades dated on or after from.
func (s *movementService) TradesFrom(accountID uint, from time.Time) ([]models.Trade, error) {
	return movementsFrom[models.Trade](s.db, accountID, from)
}

// DividendsFrom returns all dividends dated on or after from.
func (s *movementService) DividendsFrom(accountID uint, from time.Time) ([]models.Dividend, error) {
	return movementsFrom[models.Dividend](s.db, accountID, from)
}

// DividendTaxesFrom returns all dividend taxes dated on or after from.
func (s *movementService) DividendTaxesFrom(accountID uint, from time.Time) ([]models.DividendTax, error) {
	return movementsFrom[models.DividendTax](s.db, accountID, from)
}

// OptionTradesFrom returns all option trades dated on or after from.
func (s *movementService) OptionTradesFrom(accountID uint, from time.Time) ([]models.OptionTrade, error) {
	return movementsFrom[models.OptionTrade](s.db, accountID, from)
}

// movementsFrom is the shared date-from query for all five movement kinds.
func movementsFrom[T any](db *gorm.DB, accountID uint, from time.Time) ([]T, error) {
	var out []T
	q := db.Where("account_id = ?", accountID)
	if !from.IsZero() {
		q = q.Where("date >= ?", models.Day(from))
	}
	if err := q.Order("date ASC, id ASC").Find(&out).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return out, nil
}

// listMovements is the shared paginated listing for all five movement kinds.
func listMovements[T any](db *gorm.DB, accountID uint, page pagination.PageRequest) (*pagination.PageResponse[T], error) {
	page.Defaults()

	var model T
	var totalItems int64
	base := db.Model(&model).Where("account_id = ?", accountID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []T
	if err := base.Order("date DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// findOwned loads a movement by ID and verifies the parent account belongs to
// the user. A hit on another user's movement reports not-found, not forbidden.
func (s *movementService) findOwned(userID, id uint, dest interface{}) error {
	if err := s.db.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMovementNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	accountID := movementAccountID(dest)
	if _, err := s.accounts.GetAccountByID(userID, accountID); err != nil {
		return apperrors.ErrMovementNotFound
	}
	return nil
}

// movementAccountID extracts the AccountID from any of the five movement kinds.
func movementAccountID(movement interface{}) uint {
	switch m := movement.(type) {
	case *models.CashMovement:
		return m.AccountID
	case *models.Trade:
		return m.AccountID
	case *models.Dividend:
		return m.AccountID
	case *models.DividendTax:
		return m.AccountID
	case *models.OptionTrade:
		return m.AccountID
	}
	return 0
}

// requireBrokerAccount verifies ownership and that the account is a broker
// account; trades, dividends, and options only exist on broker accounts.
func (s *movementService) requireBrokerAccount(userID, accountID uint) error {
	account, err := s.accounts.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}
	if account.Type != models.AccountTypeBroker {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Account is not a broker account")
	}
	return nil
}
