package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/Kevingarzon94/coffe-shop-bck/controllers"
	"github.com/Kevingarzon94/coffe-shop-bck/middleware"
	"github.com/Kevingarzon94/coffe-shop-bck/utils"
)

func RegisterRoutes(app *fiber.App, h *controllers.Handler, maker *utils.JWTMaker) {
	auth := middleware.Protected(maker)

	// login and sale creation are the abuse-prone endpoints
	writeLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
	})

	// auth
	app.Post("/api/login", writeLimiter, h.Login)
	app.Post("/api/refresh", h.Refresh)
	app.Get("/api/me", auth, h.Me)

	// catalog
	app.Get("/products", h.GetProducts)
	app.Get("/products/:product_id", h.GetProductByID)
	app.Post("/products", auth, h.CreateProduct)
	app.Put("/products/:product_id", auth, h.UpdateProduct)
	app.Delete("/products/:product_id", auth, h.DeleteProduct)
	app.Put("/products/:product_id/stock", auth, h.RestockProduct)

	// customers
	app.Get("/customers", auth, h.GetCustomers)
	app.Get("/customers/:customer_id", auth, h.GetCustomerByID)
	app.Put("/customers/:customer_id", auth, h.UpdateCustomer)

	// pos
	app.Post("/sales", writeLimiter, h.CreateSale)
	app.Get("/sales", auth, h.GetSales)
	app.Get("/sales/:sale_id", auth, h.GetSaleByID)

	// dashboard
	app.Get("/dashboard/summary", auth, h.GetDashboardSummary)
	app.Get("/dashboard/top-products", auth, h.GetTopProducts)
}
