package routes

import (
	"github.com/gin-gonic/gin"

	"payrelay/internal/interfaces/http/handlers"
	"payrelay/internal/interfaces/http/middleware"
)

// PaymentRouteConfig holds dependencies for payment routes.
type PaymentRouteConfig struct {
	CheckoutHandler       *handlers.CheckoutHandler
	ReconciliationHandler *handlers.ReconciliationHandler
	OperatorHandler       *handlers.OperatorHandler
	RateLimiter           *middleware.RateLimiter
}

// SetupPaymentRoutes configures payment routes.
func SetupPaymentRoutes(engine *gin.Engine, cfg *PaymentRouteConfig) {
	payments := engine.Group("/api/v1/payments")
	{
		// Processor ingress. Rate limited: both endpoints are public and
		// unauthenticated at the HTTP layer (authenticity lives in the
		// checksum), so they are the abuse surface.
		ingress := payments.Group("")
		if cfg.RateLimiter != nil {
			ingress.Use(cfg.RateLimiter.Limit())
		}
		{
			ingress.POST("/webhook", cfg.ReconciliationHandler.Webhook)
			ingress.GET("/redirect", cfg.ReconciliationHandler.Redirect)
			ingress.POST("/redirect", cfg.ReconciliationHandler.Redirect)
		}

		// Checkout surface
		payments.GET("/channels", cfg.CheckoutHandler.ListChannels)
		payments.POST("", cfg.CheckoutHandler.InitiatePayment)
		payments.POST("/initiate", cfg.CheckoutHandler.RedirectToProcessor)
	}

	operator := engine.Group("/api/v1/operator")
	{
		operator.GET("/intents", cfg.OperatorHandler.ListRecentIntents)
		operator.GET("/transactions/:payment_code", cfg.OperatorHandler.TransactionStatus)
		operator.GET("/connection-test", cfg.OperatorHandler.TestConnection)
	}
}
