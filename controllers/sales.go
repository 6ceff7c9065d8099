package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
	"github.com/Kevingarzon94/coffe-shop-bck/pos"
	"github.com/Kevingarzon94/coffe-shop-bck/utils"
)

type salesListResp struct {
	Items []models.Sale `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// CreateSale hands the purchase request to the transaction processor and
// translates its outcome onto HTTP.
func (h *Handler) CreateSale(c *fiber.Ctx) error {
	var req pos.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	result, err := h.processor.ProcessSale(c.Context(), req)
	if err != nil {
		var rej *pos.Rejection
		if errors.As(err, &rej) {
			status := fiber.StatusBadRequest
			if rej.Transient() {
				status = fiber.StatusConflict
			}
			return c.Status(status).JSON(fiber.Map{
				"error":   rej.Message,
				"code":    rej.Code,
				"details": rej,
			})
		}
		return h.internalError(c, err, "sale processing failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "sale created",
		"sale_id":     result.SaleID,
		"customer_id": result.CustomerID,
		"total":       result.Total,
	})
}

// GetSales lists committed sales, newest first.
func (h *Handler) GetSales(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	var total int
	if err := h.pool.QueryRow(c.Context(), `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
		return h.internalError(c, err, "sale count failed")
	}

	rows, err := h.pool.Query(c.Context(),
		`SELECT id, sale_id, customer_id, total, created_at
		 FROM sales
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		pg.Limit, pg.Offset(),
	)
	if err != nil {
		return h.internalError(c, err, "sale list query failed")
	}
	defer rows.Close()

	sales := []models.Sale{}
	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(&s.ID, &s.SaleID, &s.CustomerID, &s.Total, &s.CreatedAt); err != nil {
			return h.internalError(c, err, "sale scan failed")
		}
		sales = append(sales, s)
	}

	return c.JSON(salesListResp{Items: sales, Total: total, Page: pg.Page, Limit: pg.Limit})
}

// GetSaleByID returns one sale with its line items.
func (h *Handler) GetSaleByID(c *fiber.Ctx) error {
	saleID := c.Params("sale_id")

	var s models.Sale
	err := h.pool.QueryRow(c.Context(),
		`SELECT id, sale_id, customer_id, total, created_at
		 FROM sales WHERE sale_id = $1`, saleID,
	).Scan(&s.ID, &s.SaleID, &s.CustomerID, &s.Total, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "sale not found"})
	}
	if err != nil {
		return h.internalError(c, err, "sale query failed")
	}

	rows, err := h.pool.Query(c.Context(),
		`SELECT id, sale_id, product_id, quantity, unit_price, subtotal, created_at
		 FROM sale_items WHERE sale_id = $1
		 ORDER BY id ASC`, s.ID,
	)
	if err != nil {
		return h.internalError(c, err, "sale items query failed")
	}
	defer rows.Close()

	for rows.Next() {
		var item models.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Subtotal, &item.CreatedAt); err != nil {
			return h.internalError(c, err, "sale item scan failed")
		}
		s.Items = append(s.Items, item)
	}

	return c.JSON(s)
}
