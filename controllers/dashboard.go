package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
)

// GetDashboardSummary aggregates today's trading figures plus the count of
// active products running low on stock.
func (h *Handler) GetDashboardSummary(c *fiber.Ctx) error {
	var summary models.DashboardSummary

	err := h.pool.QueryRow(c.Context(),
		`SELECT COALESCE(SUM(total), 0), COUNT(*)
		 FROM sales
		 WHERE created_at >= CURRENT_DATE`,
	).Scan(&summary.Revenue, &summary.SaleCount)
	if err != nil {
		return h.internalError(c, err, "dashboard revenue query failed")
	}

	err = h.pool.QueryRow(c.Context(),
		`SELECT COALESCE(SUM(si.quantity), 0)
		 FROM sale_items si
		 JOIN sales s ON s.id = si.sale_id
		 WHERE s.created_at >= CURRENT_DATE`,
	).Scan(&summary.ItemsSold)
	if err != nil {
		return h.internalError(c, err, "dashboard items query failed")
	}

	err = h.pool.QueryRow(c.Context(),
		`SELECT COUNT(*) FROM products WHERE is_active = TRUE AND stock <= $1`,
		h.cfg.LowStockLevel,
	).Scan(&summary.LowStock)
	if err != nil {
		return h.internalError(c, err, "dashboard stock query failed")
	}

	return c.JSON(summary)
}

// GetTopProducts ranks products by units sold across all committed sales.
func (h *Handler) GetTopProducts(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	if limit < 1 || limit > 50 {
		limit = 5
	}

	rows, err := h.pool.Query(c.Context(),
		`SELECT si.product_id, p.name, SUM(si.quantity) AS units, SUM(si.subtotal) AS revenue
		 FROM sale_items si
		 JOIN products p ON p.product_id = si.product_id
		 GROUP BY si.product_id, p.name
		 ORDER BY units DESC, revenue DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return h.internalError(c, err, "top products query failed")
	}
	defer rows.Close()

	top := []models.TopProduct{}
	for rows.Next() {
		var t models.TopProduct
		if err := rows.Scan(&t.ProductID, &t.Name, &t.UnitsSold, &t.Revenue); err != nil {
			return h.internalError(c, err, "top products scan failed")
		}
		top = append(top, t)
	}

	return c.JSON(top)
}
