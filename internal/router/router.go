// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Stvolll/scooter-wraps-backend/internal/config"
	"github.com/Stvolll/scooter-wraps-backend/internal/handlers"
	"github.com/Stvolll/scooter-wraps-backend/internal/middleware"
	"github.com/Stvolll/scooter-wraps-backend/internal/services"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage service")
	}

	designService := services.NewDesignService(db)
	dealService := services.NewDealService(db)
	ingestService := services.NewIngestService(db, storageService)
	paymentService := services.NewPaymentService(db, dealService, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	designHandler := handlers.NewDesignHandler(designService)
	dealHandler := handlers.NewDealHandler(dealService, paymentService)
	uploadHandler := handlers.NewUploadHandler(ingestService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = 128 << 20

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
		}

		// Public storefront
		catalog := v1.Group("/catalog")
		{
			catalog.GET("", designHandler.GetCatalog)
			catalog.GET("/:slug", designHandler.GetCatalogDesign)
		}

		// Checkout flow
		v1.POST("/designs/:id/deals", dealHandler.OpenDeal)
		v1.POST("/deals/:id/checkout", dealHandler.CreateCheckoutSession)
		v1.POST("/payments/webhook", paymentHandler.Webhook)

		// Admin console
		designs := v1.Group("/designs")
		designs.Use(middleware.AdminRequired())
		{
			designs.GET("", designHandler.GetDesigns)
			designs.POST("", designHandler.CreateDesign)
			designs.GET("/:id", designHandler.GetDesign)
			designs.POST("/:id/status", designHandler.AdvanceStatus)
			designs.POST("/:id/publish", designHandler.SetPublished)
			designs.PUT("/:id/model-properties", designHandler.SaveModelProperties)
			designs.POST("/:id/assets", middleware.UploadRateLimit(), uploadHandler.IngestBatch)
		}

		storage := v1.Group("/storage")
		storage.Use(middleware.AdminRequired())
		{
			storage.POST("/cleanup", uploadHandler.CleanupOrphans)
		}

		deals := v1.Group("/deals")
		deals.Use(middleware.AdminRequired())
		{
			deals.GET("", dealHandler.GetDeals)
			deals.GET("/:id", dealHandler.GetDeal)
			deals.POST("/:id/settle", dealHandler.SettleDeal)
		}
	}

	return r
}
