package main

import (
	"log"
	"os"

	_ "rentalhub/api/swagger" // swagger docs
	"rentalhub/internal/database"
	"rentalhub/internal/handler"
	"rentalhub/internal/middleware"
	"rentalhub/internal/notify"
	"rentalhub/internal/repository"
	"rentalhub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Rental Management API
// @version         1.0
// @description     Backend for managing rental properties, rent contracts, meter states and derived invoices.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up event hub for live notifications
	hub := notify.NewHub()
	go hub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	audit := service.NewAuditRecorder(db)

	userRepo := repository.NewUserRepository(db)
	landlordRepo := repository.NewLandlordRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	rateRepo := repository.NewRateRepository(db)
	rentRepo := repository.NewRentRepository(db)
	stateRepo := repository.NewMeterStateRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	userService := service.NewUserService(userRepo)
	landlordService := service.NewLandlordService(landlordRepo, propertyRepo, rentRepo, txManager, audit)
	tenantService := service.NewTenantService(tenantRepo, rentRepo, txManager, audit)
	propertyService := service.NewPropertyService(propertyRepo, landlordRepo, txManager, audit)
	rateService := service.NewRateService(rateRepo, propertyRepo, audit)
	rentService := service.NewRentService(rentRepo, propertyRepo, tenantRepo, audit)
	stateService := service.NewMeterStateService(stateRepo, rentRepo, propertyRepo, txManager, audit, hub)
	invoiceService := service.NewInvoiceService(invoiceRepo, stateRepo, rentRepo, propertyRepo, rateRepo, txManager, audit, hub)
	photoService := service.NewPhotoService(photoRepo, stateRepo)
	auditService := service.NewAuditService(db)
	statisticsService := service.NewStatisticsService(db)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	landlordHandler := handler.NewLandlordHandler(landlordService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	rateHandler := handler.NewRateHandler(rateService)
	rentHandler := handler.NewRentHandler(rentService)
	stateHandler := handler.NewStateHandler(stateService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	photoHandler := handler.NewPhotoHandler(photoService)
	auditHandler := handler.NewAuditHandler(auditService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		notify.ServeWs(hub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	landlordHandler.RegisterRoutes(router.Group(""))
	tenantHandler.RegisterRoutes(router.Group(""))
	propertyHandler.RegisterRoutes(router.Group(""))
	rateHandler.RegisterRoutes(router.Group(""))
	rentHandler.RegisterRoutes(router.Group(""))
	stateHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	photoHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
