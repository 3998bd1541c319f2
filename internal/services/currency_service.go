package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
)

// currencyService resolves currencies seeded by migration.
type currencyService struct {
	db *gorm.DB
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(db *gorm.DB) CurrencyServicer {
	return &currencyService{db: db}
}

// GetByCode resolves a currency by its ISO 4217 code.
func (s *currencyService) GetByCode(code string) (*models.Currency, error) {
	var currency models.Currency
	err := s.db.Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&currency).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCurrencyNotFound,
				fmt.Sprintf("Currency %q not found", code))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// GetByID resolves a currency by its primary key.
func (s *currencyService) GetByID(id uint) (*models.Currency, error) {
	var currency models.Currency
	if err := s.db.First(&currency, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCurrencyNotFound,
				fmt.Sprintf("Currency %d not found", id))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &currency, nil
}

// List returns all currencies ordered by code.
func (s *currencyService) List() ([]models.Currency, error) {
	var currencies []models.Currency
	if err := s.db.Order("code ASC").Find(&currencies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return currencies, nil
}
