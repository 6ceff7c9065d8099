package pos

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
)

var (
	// ErrNotFound is returned by Tx lookups when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrStockConflict is returned by DecrementStock when the conditional
	// update touches no row: the product vanished or its stock dropped
	// below the requested quantity after validation.
	ErrStockConflict = errors.New("stock conflict")

	// ErrTxConflict is returned by RunInTransaction when the database
	// aborts the transaction over a serialization failure or deadlock.
	ErrTxConflict = errors.New("transaction conflict")
)

// Store is the durable-store capability the processor consumes. Every effect
// made through the Tx handed to fn commits together or not at all.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of operations available inside one transaction. Reads that
// feed later writes must hold row locks until commit (GetProductForUpdate),
// and DecrementStock must re-check stock at write time so a lost race is
// detected rather than driven negative.
type Tx interface {
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	UpsertCustomer(ctx context.Context, firstName, lastName, email string) (*models.Customer, error)
	GetProductForUpdate(ctx context.Context, productID string) (*models.Product, error)
	InsertSale(ctx context.Context, customerID int64, provisionalTotal decimal.Decimal) (int64, error)
	InsertSaleItem(ctx context.Context, item models.SaleItem) error
	DecrementStock(ctx context.Context, productID string, quantity int) error
	FinalizeSale(ctx context.Context, saleID int64, saleCode string, total decimal.Decimal) error
}
