package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

type mockAccountService struct {
	createAccountFn     func(userID uint, name, description string, accountType models.AccountType, currencyID uint, broker, accountNumber string) (*models.Account, error)
	getAccountByIDFn    func(userID, accountID uint) (*models.Account, error)
	deactivateAccountFn func(userID, accountID uint) error
}

func (m *mockAccountService) CreateAccount(userID uint, name, description string, accountType models.AccountType, currencyID uint, broker, accountNumber string) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(userID, name, description, accountType, currencyID, broker, accountNumber)
	}
	return &models.Account{UserID: userID, Name: name, Type: accountType, CurrencyID: currencyID}, nil
}

func (m *mockAccountService) GetUserAccounts(_ uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	resp := pagination.NewPageResponse([]models.Account{}, page.Page, page.PageSize, 0)
	return &resp, nil
}

func (m *mockAccountService) GetAccountByID(userID, accountID uint) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(userID, accountID)
	}
	account := &models.Account{UserID: userID}
	account.ID = accountID
	return account, nil
}

func (m *mockAccountService) UpdateAccount(userID, accountID uint, name, description string) (*models.Account, error) {
	account := &models.Account{UserID: userID, Name: name, Description: description}
	account.ID = accountID
	return account, nil
}

func (m *mockAccountService) DeactivateAccount(userID, accountID uint) error {
	if m.deactivateAccountFn != nil {
		return m.deactivateAccountFn(userID, accountID)
	}
	return nil
}

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := gin.New()
	auth := injectUserID(1)
	r.POST("/accounts", auth, handler.CreateAccount)
	r.GET("/accounts", auth, handler.GetAccounts)
	r.GET("/accounts/:id", auth, handler.GetAccount)
	r.PUT("/accounts/:id", auth, handler.UpdateAccount)
	r.DELETE("/accounts/:id", auth, handler.DeactivateAccount)
	r.GET("/currencies", auth, handler.ListCurrencies)
	return r
}

func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("returns 201 and seeds the default-currency snapshot", func(t *testing.T) {
		var seeded *models.Account
		snapSvc := &mockSnapshotService{}
		accountSvc := &mockAccountService{
			createAccountFn: func(userID uint, name, _ string, accountType models.AccountType, currencyID uint, _, _ string) (*models.Account, error) {
				account := &models.Account{UserID: userID, Name: name, Type: accountType, CurrencyID: currencyID}
				account.ID = 11
				seeded = account
				return account, nil
			},
		}
		handler := NewAccountHandler(accountSvc, &mockCurrencyService{}, snapSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Trading","type":"broker","currency":"USD","broker":"Acme"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if seeded == nil {
			t.Fatal("account was not created")
		}
	})

	t.Run("snapshot seed failure does not fail the create", func(t *testing.T) {
		snapSvc := &mockSnapshotService{
			handleNewAccountFn: func(_ *models.Account) error {
				return apperrors.ErrInternalServer
			},
		}
		handler := NewAccountHandler(&mockAccountService{}, &mockCurrencyService{}, snapSvc)
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Checking","type":"bank","currency":"USD"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("omitted currency falls back to the configured default", func(t *testing.T) {
		var resolved string
		currencySvc := &mockCurrencyService{
			getByCodeFn: func(code string) (*models.Currency, error) {
				resolved = code
				currency := &models.Currency{Code: code}
				currency.ID = 1
				return currency, nil
			},
		}
		handler := NewAccountHandler(&mockAccountService{}, currencySvc, &mockSnapshotService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts", `{"name":"Checking","type":"bank"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if resolved != "USD" {
			t.Fatalf("expected default currency USD, got %q", resolved)
		}
	})

	t.Run("returns 400 on an unknown account type", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockCurrencyService{}, &mockSnapshotService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Vault","type":"mattress","currency":"USD"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on an unknown currency code", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockCurrencyService{}, &mockSnapshotService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/accounts",
			`{"name":"Checking","type":"bank","currency":"XXX"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_GetAccount(t *testing.T) {
	t.Run("returns 404 on a foreign account", func(t *testing.T) {
		accountSvc := &mockAccountService{
			getAccountByIDFn: func(_, _ uint) (*models.Account, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		handler := NewAccountHandler(accountSvc, &mockCurrencyService{}, &mockSnapshotService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/9", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})

	t.Run("returns 400 on a non-numeric id", func(t *testing.T) {
		handler := NewAccountHandler(&mockAccountService{}, &mockCurrencyService{}, &mockSnapshotService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/accounts/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_ListCurrencies(t *testing.T) {
	t.Run("returns the currency catalog", func(t *testing.T) {
		currencySvc := &mockCurrencyService{
			listFn: func() ([]models.Currency, error) {
				usd := models.Currency{Code: "USD", Name: "US Dollar"}
				usd.ID = 1
				return []models.Currency{usd}, nil
			},
		}
		handler := NewAccountHandler(&mockAccountService{}, currencySvc, &mockSnapshotService{})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/currencies", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		currencies, ok := parseJSON(t, rec)["currencies"].([]interface{})
		if !ok || len(currencies) != 1 {
			t.Errorf("expected 1 currency, got %v", currencies)
		}
	})
}
