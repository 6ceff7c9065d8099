package models

import "github.com/shopspring/decimal"

type DashboardSummary struct {
	Revenue   decimal.Decimal `json:"revenue"`
	SaleCount int64           `json:"sale_count"`
	ItemsSold int64           `json:"items_sold"`
	LowStock  int64           `json:"low_stock"`
}

type TopProduct struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}
