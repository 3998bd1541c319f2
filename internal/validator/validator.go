// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validCurrencies contains ISO 4217 currency codes.
var validCurrencies = map[string]bool{
	"AED": true, "AUD": true, "BRL": true, "CAD": true, "CHF": true,
	"CNY": true, "CZK": true, "DKK": true, "EUR": true, "GBP": true,
	"HKD": true, "HUF": true, "IDR": true, "ILS": true, "INR": true,
	"ISK": true, "JPY": true, "KRW": true, "MXN": true, "MYR": true,
	"NOK": true, "NZD": true, "PHP": true, "PLN": true, "RON": true,
	"SEK": true, "SGD": true, "THB": true, "TRY": true, "TWD": true,
	"USD": true, "ZAR": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("cash_movement_type", validateCashMovementType)
		_ = v.RegisterValidation("trade_type", validateTradeType)
		_ = v.RegisterValidation("option_trade_type", validateOptionTradeType)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "bank", "broker":
		return true
	}
	return false
}

func validateCashMovementType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "deposit", "withdrawal", "fee", "interest_gained", "interest_paid", "conversion", "acat_transfer":
		return true
	}
	return false
}

func validateTradeType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "buy", "sell_to_open", "close":
		return true
	}
	return false
}

func validateOptionTradeType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "sell_to_open", "buy_to_open", "buy_to_close", "sell_to_close":
		return true
	}
	return false
}
