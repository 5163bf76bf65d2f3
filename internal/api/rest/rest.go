package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-paywall/internal/api/middleware"
	"github.com/feral-file/ff-paywall/internal/availability"
	"github.com/feral-file/ff-paywall/internal/checkout"
)

// SetupRoutes configures the webhook, the payment page and the REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// PayPal posts notifications here; every method is routed so the handler can reject it
	router.Any(checkout.IPNPath, handler.IPN)

	// Payment page, guests are welcome
	router.GET(availability.ViewPath, middleware.CurrentUser(authCfg), handler.View)

	v1 := router.Group("/api/v1", middleware.Auth(authCfg))
	{
		v1.GET("/availability/paypal/check", handler.CheckAvailability)
		v1.GET("/availability/paypal/describe", handler.DescribeAvailability)
		v1.GET("/transactions", handler.ListTransactions)
	}
}
