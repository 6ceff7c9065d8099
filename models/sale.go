package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID         int64           `json:"id"`
	SaleID     string          `json:"sale_id"`
	CustomerID int64           `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []SaleItem      `json:"items,omitempty"`
}

// SaleItem freezes the unit price at the moment of sale; catalog price
// changes never rewrite history.
type SaleItem struct {
	ID        int64           `json:"id"`
	SaleID    int64           `json:"sale_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}
