package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kevingarzon94/coffe-shop-bck/models"
	"github.com/Kevingarzon94/coffe-shop-bck/utils"
)

type loginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login checks the employee credentials against the stored bcrypt hash and
// issues an access/refresh token pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.EmployeeID == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "employee_id and password are required"})
	}

	var emp models.Employee
	err := h.pool.QueryRow(c.Context(),
		`SELECT id, employee_id, password_hash, name, position
		 FROM employees WHERE employee_id = $1`, req.EmployeeID,
	).Scan(&emp.ID, &emp.EmployeeID, &emp.PasswordHash, &emp.Name, &emp.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return h.internalError(c, err, "login query failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	pair, err := h.maker.GenerateTokenPair(emp.EmployeeID)
	if err != nil {
		return h.internalError(c, err, "token generation failed")
	}

	utils.SetAuthCookie(c, pair.AccessToken, h.cfg.AccessTokenTTL)

	return c.JSON(fiber.Map{
		"employee": fiber.Map{
			"employee_id": emp.EmployeeID,
			"name":        emp.Name,
			"position":    emp.Position,
		},
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "refresh_token is required"})
	}

	claims, err := h.maker.ParseToken(req.RefreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	pair, err := h.maker.GenerateTokenPair(claims.EmployeeID)
	if err != nil {
		return h.internalError(c, err, "token generation failed")
	}

	utils.SetAuthCookie(c, pair.AccessToken, h.cfg.AccessTokenTTL)

	return c.JSON(pair)
}

// Me returns the authenticated employee.
func (h *Handler) Me(c *fiber.Ctx) error {
	employeeID, _ := c.Locals("employee_id").(string)

	var emp models.Employee
	err := h.pool.QueryRow(c.Context(),
		`SELECT id, employee_id, name, email, position, created_at
		 FROM employees WHERE employee_id = $1`, employeeID,
	).Scan(&emp.ID, &emp.EmployeeID, &emp.Name, &emp.Email, &emp.Position, &emp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "employee not found"})
	}
	if err != nil {
		return h.internalError(c, err, "employee query failed")
	}

	return c.JSON(emp)
}
