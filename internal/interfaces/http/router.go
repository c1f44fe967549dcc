package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	paymentUsecases "payrelay/internal/application/payment/usecases"
	infraConfig "payrelay/internal/infrastructure/config"
	"payrelay/internal/infrastructure/email"
	"payrelay/internal/infrastructure/herepay"
	"payrelay/internal/infrastructure/repository"
	"payrelay/internal/interfaces/http/handlers"
	"payrelay/internal/interfaces/http/middleware"
	"payrelay/internal/interfaces/http/routes"
	"payrelay/internal/shared/logger"
	"payrelay/internal/shared/utils"
)

// Public ingress allowance per client IP. The processor retries webhooks
// sparsely; anything past this is abuse.
const (
	ingressRateLimit  = 60
	ingressRateWindow = time.Minute
)

// Router assembles the HTTP surface: repositories, gateway, use cases,
// handlers, and middleware.
type Router struct {
	engine *gin.Engine
}

func NewRouter(cfg *infraConfig.Config, db *gorm.DB, log logger.Interface) *Router {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.ErrorHandler())
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	// Repositories and adapters
	intents := repository.NewPaymentIntentRepository(db)
	orders := repository.NewOrderStore(db)
	gateway := herepay.NewClient(cfg.Herepay, log.Named("herepay"))

	// Use cases
	redirectURL := cfg.Server.BaseURL + "/api/v1/payments/redirect"
	initiateUC := paymentUsecases.NewInitiatePaymentUseCase(
		intents, orders, gateway, cfg.Herepay, redirectURL, log.Named("initiate"))
	reconcileUC := paymentUsecases.NewReconcilePaymentEventUseCase(
		intents, orders, gateway.Signer(), log.Named("reconcile"))
	if cfg.Email.Enabled() {
		reconcileUC.SetReceiptNotifier(email.NewReceiptMailer(cfg.Email))
	}
	channelsUC := paymentUsecases.NewListChannelsUseCase(gateway, log.Named("channels"))
	recentUC := paymentUsecases.NewListRecentIntentsUseCase(intents, log.Named("operator"))
	statusUC := paymentUsecases.NewQueryTransactionStatusUseCase(gateway, log.Named("operator"))
	testUC := paymentUsecases.NewTestConnectionUseCase(gateway, cfg.Herepay, log.Named("operator"))

	// Handlers
	checkoutHandler := handlers.NewCheckoutHandler(initiateUC, channelsUC, log)
	reconciliationHandler := handlers.NewReconciliationHandler(reconcileUC, cfg.Checkout, log)
	operatorHandler := handlers.NewOperatorHandler(recentUC, statusUC, testUC, log)

	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rateLimiter = middleware.NewRateLimiter(redisClient, ingressRateLimit, ingressRateWindow)
	}

	routes.SetupPaymentRoutes(engine, &routes.PaymentRouteConfig{
		CheckoutHandler:       checkoutHandler,
		ReconciliationHandler: reconciliationHandler,
		OperatorHandler:       operatorHandler,
		RateLimiter:           rateLimiter,
	})

	engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, "ok", gin.H{"environment": cfg.Herepay.Environment})
	})

	return &Router{engine: engine}
}

// Engine exposes the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
