package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cityguide/config"
	"cityguide/database"
	"cityguide/middleware"
	authRoutes "cityguide/routers/authRoutes"
	eventRoutes "cityguide/routers/eventRoutes"
	messageRoutes "cityguide/routers/messageRoutes"
	placeRoutes "cityguide/routers/placeRoutes"
	promotionRoutes "cityguide/routers/promotionRoutes"
	reservationRoutes "cityguide/routers/reservationRoutes"
	reviewRoutes "cityguide/routers/reviewRoutes"
	userRoutes "cityguide/routers/userRoutes"
	"cityguide/scheduler"
	"cityguide/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the Fiber application with every route registered
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "cityguide",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.CorsOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	placeRoutes.SetupPlaceRoutes(app)
	eventRoutes.SetupEventRoutes(app)
	reviewRoutes.SetupReviewRoutes(app)
	reservationRoutes.SetupReservationRoutes(app)
	promotionRoutes.SetupPromotionRoutes(app)
	messageRoutes.SetupMessageRoutes(app)
	messageRoutes.SetupChatRoutes(app)

	app.Use(middleware.NotFound)
	return app
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)
	log := utils.Component("main")

	if err := database.ConnectDb(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to the database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if cfg.RedisURL != "" {
		cache, err := utils.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, response cache disabled")
		} else {
			utils.ResponseCache = cache
			log.Info().Msg("response cache enabled")
		}
	}
	cancel()

	if cfg.AMQPURL != "" {
		publisher, err := utils.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, domain events disabled")
		} else {
			utils.Events = publisher
			log.Info().Str("exchange", cfg.AMQPExchange).Msg("domain events enabled")
		}
	}

	if cfg.SendGridAPIKey != "" {
		utils.Mail = utils.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailSender, cfg.EmailSenderName)
	}
	if cfg.GeocoderURL != "" {
		utils.Geo = utils.NewNominatimGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent)
	}

	jobs, err := scheduler.Start(cfg.SchedulerSpec)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.SchedulerSpec).Msg("invalid scheduler spec")
	}

	app := NewApp()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server is running")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	<-jobs.Stop().Done()
	if err := utils.Events.Close(); err != nil {
		log.Error().Err(err).Msg("closing rabbitmq failed")
	}
	if utils.ResponseCache != nil {
		if err := utils.ResponseCache.Close(); err != nil {
			log.Error().Err(err).Msg("closing redis failed")
		}
	}
	if err := database.Close(); err != nil {
		log.Error().Err(err).Msg("closing database failed")
	}
}
