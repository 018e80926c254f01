package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stock-api/internal/handler"
	"go-stock-api/internal/middleware"
	"go-stock-api/internal/model"
	"go-stock-api/internal/repository"
	"go-stock-api/internal/service"
	"go-stock-api/internal/ws"
	"go-stock-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// AutoMigrate adds tables and missing columns; it never drops or renames
	if err := db.AutoMigrate(&model.Product{}, &model.User{}, &model.Movement{}, &model.Sale{}); err != nil {
		log.Fatal("Migration failed: ", err)
	}

	// 3. Seed default admin account
	seedAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	stockService := service.NewStockService(productRepo, movementRepo, saleRepo, db, wsHub)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	reportService := service.NewReportService(productRepo, movementRepo, saleRepo)

	stockHandler := handler.NewStockHandler(stockService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	reportHandler := handler.NewReportHandler(reportService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stock API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth())

	// Products
	protected.Get("/products", stockHandler.GetProducts)
	protected.Post("/products", stockHandler.Restock)
	protected.Put("/products/:name", stockHandler.EditProduct)
	protected.Delete("/products/:name", middleware.RequireAdmin(), stockHandler.DeleteProduct)

	// Withdrawals & movement ledger
	protected.Post("/withdrawals", stockHandler.Withdraw)
	protected.Get("/movements", stockHandler.GetMovements)
	protected.Delete("/movements", middleware.RequireAdmin(), stockHandler.ClearMovements)

	// Sales
	protected.Post("/sales", stockHandler.RecordSale)
	protected.Get("/sales", stockHandler.GetSales)

	// Reports
	protected.Get("/reports/low-stock", reportHandler.LowStock)
	protected.Get("/reports/expiry", reportHandler.Expiry)
	protected.Get("/reports/revenue", reportHandler.Revenue)
	protected.Get("/reports/top-sellers", reportHandler.TopSellers)
	protected.Get("/reports/bottom-sellers", reportHandler.BottomSellers)
	protected.Get("/reports/average-ticket", reportHandler.AverageTicket)
	protected.Get("/dashboard/stats", reportHandler.DashboardStats)

	// User management (admin only)
	users := protected.Group("/users", middleware.RequireAdmin())
	users.Get("/", userHandler.GetUsers)
	users.Put("/:username", userHandler.UpdateUser)
	users.Delete("/:username", userHandler.DeleteUser)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin account if no admin exists yet.
// Credentials come from env, with the same defaults the legacy deployment
// used.
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	admins, err := userRepo.CountAdmins()
	if err != nil {
		log.Printf("Warning: Failed to count admin users: %v", err)
		return
	}
	if admins > 0 {
		return
	}

	username := os.Getenv("ADMIN_USER")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASS")
	if password == "" {
		password = "1234"
	}

	admin := &model.User{
		Username: username,
		Role:     model.RoleAdmin,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", username)
}
