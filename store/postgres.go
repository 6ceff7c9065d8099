package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
	"github.com/Kevingarzon94/coffe-shop-bck/pos"
)

// SQLStore implements pos.Store on top of a pgx connection pool.
type SQLStore struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{pool: pool}
}

// RunInTransaction executes fn inside a single database transaction and
// commits only if fn returns nil. Serialization failures and deadlocks are
// normalized to pos.ErrTxConflict so callers can treat them as transient.
func (s *SQLStore) RunInTransaction(ctx context.Context, fn func(tx pos.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&saleTx{tx: tx}); err != nil {
		return mapTxError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// saleTx binds the pos.Tx operations to one open pgx transaction.
type saleTx struct {
	tx pgx.Tx
}

func (t *saleTx) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	err := t.tx.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, created_at, updated_at
		 FROM customers WHERE email = $1`, email,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pos.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *saleTx) UpsertCustomer(ctx context.Context, firstName, lastName, email string) (*models.Customer, error) {
	var c models.Customer
	err := t.tx.QueryRow(ctx,
		`INSERT INTO customers (first_name, last_name, email)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE
		 SET first_name = EXCLUDED.first_name,
		     last_name  = EXCLUDED.last_name,
		     updated_at = NOW()
		 RETURNING id, first_name, last_name, email, created_at, updated_at`,
		firstName, lastName, email,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (t *saleTx) GetProductForUpdate(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := t.tx.QueryRow(ctx,
		`SELECT id, product_id, name, category, price, stock, image, is_active, created_at, updated_at
		 FROM products WHERE product_id = $1
		 FOR UPDATE`, productID,
	).Scan(&p.ID, &p.ProductID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pos.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *saleTx) InsertSale(ctx context.Context, customerID int64, provisionalTotal decimal.Decimal) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO sales (customer_id, total) VALUES ($1, $2) RETURNING id`,
		customerID, provisionalTotal,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (t *saleTx) InsertSaleItem(ctx context.Context, item models.SaleItem) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal)
		 VALUES ($1, $2, $3, $4, $5)`,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	return err
}

func (t *saleTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE products
		 SET stock = stock - $1, updated_at = NOW()
		 WHERE product_id = $2 AND stock >= $1`,
		quantity, productID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pos.ErrStockConflict
	}
	return nil
}

func (t *saleTx) FinalizeSale(ctx context.Context, saleID int64, saleCode string, total decimal.Decimal) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE sales SET sale_id = $1, total = $2 WHERE id = $3`,
		saleCode, total, saleID,
	)
	return err
}

// Postgres error codes for serialization failure and deadlock.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func mapTxError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected {
			return fmt.Errorf("%w: %s", pos.ErrTxConflict, pgErr.Message)
		}
	}
	return err
}
