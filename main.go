package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/a2n2k3p4/printbuddy-backend/handlers"
	"github.com/a2n2k3p4/printbuddy-backend/logging"
	"github.com/a2n2k3p4/printbuddy-backend/models"
)

func main() {
	_ = godotenv.Load()

	logger := logging.New()
	defer func() { _ = logger.Sync() }()

	// Database connection
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&models.PrintOrder{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Razorpay client setup
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		log.Fatal("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set")
	}
	gateway := handlers.NewGateway(keyID, keySecret, os.Getenv("RAZORPAY_WEBHOOK_SECRET"))

	paymentHandler := handlers.NewPaymentHandler(db, gateway, logger)

	app := fiber.New()
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	app.Use(handlers.MetricsMiddleware())

	app.Get("/health", paymentHandler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Post("/webhooks/razorpay", paymentHandler.HandleWebhook)

	api := app.Group("/payments", handlers.RequireSession(sessionTokenValidator()))
	api.Post("/create-order", paymentHandler.CreateOrder)
	api.Post("/verify", paymentHandler.VerifyPayment)
	api.Get("/orders", paymentHandler.ListOrders)
	api.Get("/orders/:id", paymentHandler.GetOrder)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	log.Fatal(app.Listen(addr))
}

// sessionTokenValidator checks bearer tokens against API_TOKEN. The real
// deployment delegates to the session service; a static token keeps the
// server runnable standalone.
func sessionTokenValidator() func(token string) bool {
	expected := os.Getenv("API_TOKEN")
	return func(token string) bool {
		if expected == "" {
			return true
		}
		return token == expected
	}
}
