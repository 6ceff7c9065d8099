package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Kevingarzon94/coffe-shop-bck/config"
	"github.com/Kevingarzon94/coffe-shop-bck/pos"
	"github.com/Kevingarzon94/coffe-shop-bck/utils"
)

// Handler bundles the dependencies the HTTP layer needs. CRUD endpoints
// query the pool directly; sale creation goes through the processor.
type Handler struct {
	pool      *pgxpool.Pool
	processor *pos.Processor
	maker     *utils.JWTMaker
	cfg       *config.Config
	log       zerolog.Logger
}

func NewHandler(pool *pgxpool.Pool, processor *pos.Processor, maker *utils.JWTMaker, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		pool:      pool,
		processor: processor,
		maker:     maker,
		cfg:       cfg,
		log:       log,
	}
}

func (h *Handler) internalError(c *fiber.Ctx, err error, msg string) error {
	h.log.Error().Err(err).Str("path", c.Path()).Msg(msg)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
