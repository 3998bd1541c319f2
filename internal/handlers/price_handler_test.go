package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"moneta/internal/models"
	"moneta/internal/pagination"
)

type mockPriceService struct {
	recordPriceFn func(ticker string, currencyID uint, date time.Time, price decimal.Decimal) (*models.SecurityPrice, error)
	getPricesFn   func(ticker string, currencyID uint, page pagination.PageRequest) (*pagination.PageResponse[models.SecurityPrice], error)
}

func (m *mockPriceService) PriceOnOrBefore(_ string, _ time.Time, _ uint) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *mockPriceService) RecordPrice(ticker string, currencyID uint, date time.Time, price decimal.Decimal) (*models.SecurityPrice, error) {
	if m.recordPriceFn != nil {
		return m.recordPriceFn(ticker, currencyID, date, price)
	}
	return &models.SecurityPrice{Ticker: ticker, CurrencyID: currencyID, Date: date, Price: price}, nil
}

func (m *mockPriceService) GetPrices(ticker string, currencyID uint, page pagination.PageRequest) (*pagination.PageResponse[models.SecurityPrice], error) {
	if m.getPricesFn != nil {
		return m.getPricesFn(ticker, currencyID, page)
	}
	resp := pagination.NewPageResponse([]models.SecurityPrice{}, page.Page, page.PageSize, 0)
	return &resp, nil
}

func setupPriceRouter(handler *PriceHandler) *gin.Engine {
	r := gin.New()
	r.POST("/pipeline/prices", handler.RecordPrice)
	r.GET("/prices/:ticker", injectUserID(1), handler.GetPrices)
	return r
}

func TestPriceHandler_RecordPrice(t *testing.T) {
	t.Run("returns 201 with the stored price", func(t *testing.T) {
		var gotTicker string
		var gotDate time.Time
		priceSvc := &mockPriceService{
			recordPriceFn: func(ticker string, currencyID uint, date time.Time, price decimal.Decimal) (*models.SecurityPrice, error) {
				gotTicker, gotDate = ticker, date
				return &models.SecurityPrice{Ticker: ticker, CurrencyID: currencyID, Date: date, Price: price}, nil
			},
		}
		r := setupPriceRouter(NewPriceHandler(priceSvc, &mockCurrencyService{}))

		rec := doRequest(r, "POST", "/pipeline/prices",
			`{"ticker":"AAPL","currency":"USD","date":"2024-03-05","price":"187.42"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotTicker != "AAPL" {
			t.Errorf("ticker = %q, want AAPL", gotTicker)
		}
		if gotDate.IsZero() {
			t.Error("date did not reach the service")
		}
	})

	t.Run("returns 400 on a malformed date", func(t *testing.T) {
		r := setupPriceRouter(NewPriceHandler(&mockPriceService{}, &mockCurrencyService{}))

		rec := doRequest(r, "POST", "/pipeline/prices",
			`{"ticker":"AAPL","currency":"USD","date":"last tuesday","price":"187.42"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on a missing price", func(t *testing.T) {
		r := setupPriceRouter(NewPriceHandler(&mockPriceService{}, &mockCurrencyService{}))

		rec := doRequest(r, "POST", "/pipeline/prices",
			`{"ticker":"AAPL","currency":"USD","date":"2024-03-05"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPriceHandler_GetPrices(t *testing.T) {
	t.Run("returns 200 with the history", func(t *testing.T) {
		var gotTicker string
		priceSvc := &mockPriceService{
			getPricesFn: func(ticker string, _ uint, page pagination.PageRequest) (*pagination.PageResponse[models.SecurityPrice], error) {
				gotTicker = ticker
				resp := pagination.NewPageResponse([]models.SecurityPrice{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		r := setupPriceRouter(NewPriceHandler(priceSvc, &mockCurrencyService{}))

		rec := doRequest(r, "GET", "/prices/AAPL?currency=USD", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotTicker != "AAPL" {
			t.Errorf("ticker = %q, want AAPL", gotTicker)
		}
	})

	t.Run("returns 400 when the currency is missing", func(t *testing.T) {
		r := setupPriceRouter(NewPriceHandler(&mockPriceService{}, &mockCurrencyService{}))

		rec := doRequest(r, "GET", "/prices/AAPL", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
