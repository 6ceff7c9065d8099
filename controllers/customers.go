package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
	"github.com/Kevingarzon94/coffe-shop-bck/utils"
)

type customersListResp struct {
	Items []models.Customer `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// GetCustomers lists customers, newest first, optionally filtered by email
// or name fragment.
func (h *Handler) GetCustomers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	q := strings.TrimSpace(c.Query("q"))

	where := "1=1"
	args := []interface{}{}
	if q != "" {
		where = "(email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1)"
		args = append(args, "%"+q+"%")
	}

	var total int
	if err := h.pool.QueryRow(c.Context(),
		"SELECT COUNT(*) FROM customers WHERE "+where, args...,
	).Scan(&total); err != nil {
		return h.internalError(c, err, "customer count failed")
	}

	limitArg := len(args) + 1
	args = append(args, pg.Limit, pg.Offset())
	rows, err := h.pool.Query(c.Context(),
		`SELECT id, first_name, last_name, email, created_at, updated_at
		 FROM customers WHERE `+where+`
		 ORDER BY created_at DESC
		 LIMIT $`+itoa(limitArg)+` OFFSET $`+itoa(limitArg+1),
		args...,
	)
	if err != nil {
		return h.internalError(c, err, "customer list query failed")
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var cus models.Customer
		if err := rows.Scan(&cus.ID, &cus.FirstName, &cus.LastName, &cus.Email, &cus.CreatedAt, &cus.UpdatedAt); err != nil {
			return h.internalError(c, err, "customer scan failed")
		}
		customers = append(customers, cus)
	}

	return c.JSON(customersListResp{Items: customers, Total: total, Page: pg.Page, Limit: pg.Limit})
}

// GetCustomerByID returns one customer.
func (h *Handler) GetCustomerByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("customer_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid customer id"})
	}

	var cus models.Customer
	err = h.pool.QueryRow(c.Context(),
		`SELECT id, first_name, last_name, email, created_at, updated_at
		 FROM customers WHERE id = $1`, id,
	).Scan(&cus.ID, &cus.FirstName, &cus.LastName, &cus.Email, &cus.CreatedAt, &cus.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "customer not found"})
	}
	if err != nil {
		return h.internalError(c, err, "customer query failed")
	}

	return c.JSON(cus)
}

type customerUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateCustomer changes the display name fields. The email is the business
// key and is not editable here.
func (h *Handler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("customer_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid customer id"})
	}

	var req customerUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "first_name and last_name are required"})
	}

	tag, err := h.pool.Exec(c.Context(),
		`UPDATE customers SET first_name = $1, last_name = $2, updated_at = NOW() WHERE id = $3`,
		req.FirstName, req.LastName, id,
	)
	if err != nil {
		return h.internalError(c, err, "customer update failed")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "customer not found"})
	}

	return c.JSON(fiber.Map{"message": "customer updated"})
}
