package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Kevingarzon94/coffe-shop-bck/config"
	"github.com/Kevingarzon94/coffe-shop-bck/controllers"
	"github.com/Kevingarzon94/coffe-shop-bck/database"
	"github.com/Kevingarzon94/coffe-shop-bck/middleware"
	"github.com/Kevingarzon94/coffe-shop-bck/pos"
	"github.com/Kevingarzon94/coffe-shop-bck/routes"
	"github.com/Kevingarzon94/coffe-shop-bck/store"
	"github.com/Kevingarzon94/coffe-shop-bck/utils"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// .env is optional outside dev
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	sqlStore := store.New(pool)
	processor := pos.NewProcessor(sqlStore, log.With().Str("component", "pos").Logger())
	maker := utils.NewJWTMaker(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	handler := controllers.NewHandler(pool, processor, maker, cfg, log)

	app := fiber.New(fiber.Config{
		AppName: "coffe-shop-bck",
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "Set-Cookie, X-Request-ID",
		AllowCredentials: true,
	}))

	app.Static("/static", cfg.StaticDir)

	routes.RegisterRoutes(app, handler, maker)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
