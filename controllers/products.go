package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
	"github.com/Kevingarzon94/coffe-shop-bck/utils"
)

type productsListResp struct {
	Items []models.Product `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// GetProducts lists the catalog with filtering, sorting and pagination.
// GET /products?q=&category=&in_stock=&sort=&page=&limit=
func (h *Handler) GetProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	q := strings.TrimSpace(c.Query("q"))
	categories := splitCSV(c.Query("category"))
	inStock := c.Query("in_stock") == "true"
	includeInactive := c.Query("include_inactive") == "true"
	sort := c.Query("sort", "newest") // newest|name|price_asc|price_desc

	where := []string{"1=1"}
	args := []interface{}{}
	ai := 1

	if !includeInactive {
		where = append(where, "p.is_active = TRUE")
	}
	if q != "" {
		where = append(where, "(p.name ILIKE $"+itoa(ai)+" OR p.category ILIKE $"+itoa(ai)+")")
		args = append(args, "%"+q+"%")
		ai++
	}
	if len(categories) > 0 {
		where = append(where, "p.category = ANY($"+itoa(ai)+")")
		args = append(args, categories)
		ai++
	}
	if inStock {
		where = append(where, "p.stock > 0")
	}

	order := "p.created_at DESC"
	switch sort {
	case "name":
		order = "p.name ASC"
	case "price_asc":
		order = "p.price ASC"
	case "price_desc":
		order = "p.price DESC"
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM products p WHERE " + strings.Join(where, " AND ")
	if err := h.pool.QueryRow(c.Context(), countSQL, args...).Scan(&total); err != nil {
		return h.internalError(c, err, "product count failed")
	}

	listSQL := `
SELECT p.id, p.product_id, p.name, p.category, p.price, p.stock, p.image, p.is_active, p.created_at, p.updated_at
FROM products p
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY ` + order + `
LIMIT $` + itoa(ai) + ` OFFSET $` + itoa(ai+1)
	args = append(args, pg.Limit, pg.Offset())

	rows, err := h.pool.Query(c.Context(), listSQL, args...)
	if err != nil {
		return h.internalError(c, err, "product list query failed")
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.ProductID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return h.internalError(c, err, "product scan failed")
		}
		products = append(products, p)
	}

	return c.JSON(productsListResp{Items: products, Total: total, Page: pg.Page, Limit: pg.Limit})
}

// GetProductByID returns one product by its public id.
func (h *Handler) GetProductByID(c *fiber.Ctx) error {
	productID := c.Params("product_id")

	var p models.Product
	err := h.pool.QueryRow(c.Context(),
		`SELECT id, product_id, name, category, price, stock, image, is_active, created_at, updated_at
		 FROM products WHERE product_id = $1`, productID,
	).Scan(&p.ID, &p.ProductID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if err != nil {
		return h.internalError(c, err, "product query failed")
	}

	return c.JSON(p)
}

// CreateProduct upserts a catalog entry from multipart form data; the image
// file is stored under the static directory.
func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.FormValue("product_id"))
	name := strings.TrimSpace(c.FormValue("name"))
	category := strings.TrimSpace(c.FormValue("category"))
	stock, _ := strconv.Atoi(c.FormValue("stock"))

	if productID == "" || name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "product_id and name are required"})
	}
	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil || price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be a non-negative number"})
	}
	if stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stock must not be negative"})
	}

	imagePath := ""
	if file, err := c.FormFile("image"); err == nil {
		fileName := fmt.Sprintf("%d_%s", time.Now().Unix(), file.Filename)
		if err := c.SaveFile(file, h.cfg.StaticDir+"/images/"+fileName); err != nil {
			return h.internalError(c, err, "image save failed")
		}
		imagePath = "/static/images/" + fileName
	}

	_, err = h.pool.Exec(c.Context(),
		`INSERT INTO products (product_id, name, category, price, stock, image, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		 ON CONFLICT (product_id) DO UPDATE
		 SET name = EXCLUDED.name,
		     category = EXCLUDED.category,
		     price = EXCLUDED.price,
		     stock = EXCLUDED.stock,
		     image = CASE WHEN EXCLUDED.image <> '' THEN EXCLUDED.image ELSE products.image END,
		     is_active = TRUE,
		     updated_at = NOW()`,
		productID, name, category, price, stock, imagePath,
	)
	if err != nil {
		return h.internalError(c, err, "product upsert failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "product saved",
		"product_id": productID,
	})
}

type productUpdateRequest struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	IsActive *bool            `json:"is_active"`
}

// UpdateProduct patches catalog fields. Stock is deliberately excluded,
// inventory moves only through restock and sale transactions.
func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("product_id")

	var req productUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Price != nil && req.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must not be negative"})
	}

	tag, err := h.pool.Exec(c.Context(),
		`UPDATE products
		 SET name = COALESCE($1, name),
		     category = COALESCE($2, category),
		     price = COALESCE($3, price),
		     is_active = COALESCE($4, is_active),
		     updated_at = NOW()
		 WHERE product_id = $5`,
		req.Name, req.Category, req.Price, req.IsActive, productID,
	)
	if err != nil {
		return h.internalError(c, err, "product update failed")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}

	return c.JSON(fiber.Map{"message": "product updated"})
}

// DeleteProduct soft-deletes: the row stays so historical sale items keep a
// valid reference.
func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("product_id")

	tag, err := h.pool.Exec(c.Context(),
		`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE product_id = $1`,
		productID,
	)
	if err != nil {
		return h.internalError(c, err, "product delete failed")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}

	return c.JSON(fiber.Map{"message": "product deactivated"})
}

type restockRequest struct {
	Amount int `json:"amount"`
}

// RestockProduct increments stock. A single conditional UPDATE keeps the
// mutation inside the same transactional discipline the sale path uses.
func (h *Handler) RestockProduct(c *fiber.Ctx) error {
	productID := c.Params("product_id")

	var req restockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Amount < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "amount must be positive"})
	}

	var stock int
	err := h.pool.QueryRow(c.Context(),
		`UPDATE products SET stock = stock + $1, updated_at = NOW()
		 WHERE product_id = $2
		 RETURNING stock`,
		req.Amount, productID,
	).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if err != nil {
		return h.internalError(c, err, "restock failed")
	}

	return c.JSON(fiber.Map{"product_id": productID, "stock": stock})
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }
