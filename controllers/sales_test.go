package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
	"github.com/Kevingarzon94/coffe-shop-bck/pos"
)

// stubStore backs the processor with a single product and no real
// transactionality; the handler tests only exercise the HTTP translation.
type stubStore struct {
	product *models.Product
	txErr   error
}

func (s *stubStore) RunInTransaction(ctx context.Context, fn func(tx pos.Tx) error) error {
	if s.txErr != nil {
		return s.txErr
	}
	return fn(&stubTx{product: s.product})
}

type stubTx struct {
	product *models.Product
}

func (t *stubTx) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return nil, pos.ErrNotFound
}

func (t *stubTx) UpsertCustomer(ctx context.Context, firstName, lastName, email string) (*models.Customer, error) {
	return &models.Customer{ID: 7, FirstName: firstName, LastName: lastName, Email: email}, nil
}

func (t *stubTx) GetProductForUpdate(ctx context.Context, productID string) (*models.Product, error) {
	if t.product == nil || t.product.ProductID != productID {
		return nil, pos.ErrNotFound
	}
	return t.product, nil
}

func (t *stubTx) InsertSale(ctx context.Context, customerID int64, provisionalTotal decimal.Decimal) (int64, error) {
	return 1, nil
}

func (t *stubTx) InsertSaleItem(ctx context.Context, item models.SaleItem) error { return nil }

func (t *stubTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if t.product.Stock < quantity {
		return pos.ErrStockConflict
	}
	t.product.Stock -= quantity
	return nil
}

func (t *stubTx) FinalizeSale(ctx context.Context, saleID int64, saleCode string, total decimal.Decimal) error {
	return nil
}

func newSalesApp(store pos.Store) *fiber.App {
	processor := pos.NewProcessor(store, zerolog.Nop())
	h := NewHandler(nil, processor, nil, nil, zerolog.Nop())

	app := fiber.New()
	app.Post("/sales", h.CreateSale)
	return app
}

func postSale(t *testing.T, app *fiber.App, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/sales", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &out))
	return resp.StatusCode, out
}

func validRequest() pos.SaleRequest {
	return pos.SaleRequest{
		Customer: pos.CustomerInfo{FirstName: "Ann", LastName: "Lee", Email: "a@x.com"},
		Items:    []pos.LineItem{{ProductID: "P001", Quantity: 2}},
	}
}

func testProduct() *models.Product {
	return &models.Product{
		ProductID: "P001",
		Name:      "espresso",
		Price:     decimal.RequireFromString("3.50"),
		Stock:     10,
		IsActive:  true,
	}
}

func TestCreateSaleCreated(t *testing.T) {
	app := newSalesApp(&stubStore{product: testProduct()})

	status, body := postSale(t, app, validRequest())

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "SALE000001", body["sale_id"])
	assert.Equal(t, "7.00", body["total"])
	assert.Equal(t, float64(7), body["customer_id"])
}

func TestCreateSaleBusinessRejection(t *testing.T) {
	app := newSalesApp(&stubStore{product: testProduct()})

	req := validRequest()
	req.Items[0].Quantity = 50 // more than in stock

	status, body := postSale(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, string(pos.CodeInsufficientStock), body["code"])

	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "P001", details["product_id"])
	assert.Equal(t, float64(10), details["available"])
	assert.Equal(t, float64(50), details["requested"])
}

func TestCreateSaleInvalidBody(t *testing.T) {
	app := newSalesApp(&stubStore{product: testProduct()})

	req := httptest.NewRequest("POST", "/sales", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateSaleConflictMapsTo409(t *testing.T) {
	app := newSalesApp(&stubStore{product: testProduct(), txErr: pos.ErrTxConflict})

	status, body := postSale(t, app, validRequest())

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, string(pos.CodeConflict), body["code"])
}

func TestCreateSaleInfrastructureFailureIsOpaque(t *testing.T) {
	app := newSalesApp(&stubStore{product: testProduct(), txErr: errors.New("pq: server on fire")})

	status, body := postSale(t, app, validRequest())

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, body["error"], "on fire")
}
