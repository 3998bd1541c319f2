package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a bank or broker account for a user. Broker details
// are only stored for broker accounts.
func (s *accountService) CreateAccount(
	userID uint,
	name, description string,
	accountType models.AccountType,
	currencyID uint,
	broker, accountNumber string,
) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Account name is required")
	}

	var currency models.Currency
	if err := s.db.First(&currency, currencyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account := &models.Account{
		UserID:      userID,
		Name:        name,
		Type:        accountType,
		Description: description,
		CurrencyID:  currencyID,
		IsActive:    true,
	}
	if accountType == models.AccountTypeBroker {
		account.Broker = broker
		account.AccountNumber = accountNumber
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account.Currency = currency
	return account, nil
}

// GetUserAccounts returns a paginated list of the user's accounts.
func (s *accountService) GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := s.db.Preload("Currency").Where("user_id = ?", userID).
		Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID returns an account if it belongs to the user.
func (s *accountService) GetAccountByID(userID, accountID uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.Preload("Currency").First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if account.UserID != userID {
		return nil, apperrors.ErrAccountNotFound
	}
	return &account, nil
}

// UpdateAccount updates an account's name and description.
func (s *accountService) UpdateAccount(userID, accountID uint, name, description string) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Account name is required")
	}

	if err := s.db.Model(account).Updates(map[string]interface{}{
		"name":        name,
		"description": description,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account.Name = name
	account.Description = description
	return account, nil
}

// DeactivateAccount marks an account inactive. Its movements and snapshots
// are kept; only new activity is rejected at the handler level.
func (s *accountService) DeactivateAccount(userID, accountID uint) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.Model(account).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
