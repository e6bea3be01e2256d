package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/customer-records-backend/config"
	"github.com/ikkim/customer-records-backend/internal/app/controller"
	"github.com/ikkim/customer-records-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	customerController *controller.CustomerController
	addressController  *controller.AddressController
	redisClient        *redis.Client // nil disables rate limiting
	config             *config.Config
}

func NewRouter(
	customerController *controller.CustomerController,
	addressController *controller.AddressController,
	redisClient *redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		customerController: customerController,
		addressController:  addressController,
		redisClient:        redisClient,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Customer records API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:  r.redisClient,
		Limit:  r.config.RateLimit.RPS,
		Window: r.config.RateLimit.Window,
	}))
	{
		customers := api.Group("/customers")
		{
			customers.GET("", r.customerController.ListCustomers)
			customers.GET("/export", r.customerController.ExportCustomers)
			customers.POST("", r.customerController.CreateCustomer)
			customers.GET("/:id", r.customerController.GetCustomer)
			customers.PUT("/:id", r.customerController.UpdateCustomer)
			customers.DELETE("/:id", r.customerController.DeleteCustomer)
			customers.GET("/:id/addresses", r.addressController.ListAddresses)
			customers.POST("/:id/addresses", r.addressController.AddAddress)
		}

		addresses := api.Group("/addresses")
		{
			addresses.GET("/:addressId", r.addressController.GetAddress)
			addresses.PUT("/:addressId", r.addressController.UpdateAddress)
			addresses.DELETE("/:addressId", r.addressController.DeleteAddress)
		}

		api.GET("/cities", r.addressController.ListCities)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		for _, allowedOrigin := range allowedOrigins {
			if allowedOrigin == "*" || origin == allowedOrigin {
				if origin != "" {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Add("Vary", "Origin")
				}
				break
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
