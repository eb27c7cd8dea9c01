// Package router assembles the HTTP route table shared by the API server and
// the end-to-end tests.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "budgetly/internal/docs" // Import swagger docs
	"budgetly/internal/handlers"
	"budgetly/internal/middleware"
	"budgetly/internal/services"
)

// Config holds the settings the route table depends on.
type Config struct {
	JWTSecret      []byte
	JWTIssuer      string
	PipelineAPIKey string
}

// Services bundles the business services behind the handlers. Chat may be
// nil when the assistant is not configured.
type Services struct {
	Accounts     services.AccountServicer
	Categories   services.CategoryServicer
	Transactions services.TransactionServicer
	Scheduled    services.ScheduledTransactionServicer
	Chat         services.ChatServicer
	Audit        services.AuditServicer
}

// New builds the gin engine with middleware and every route registered.
func New(cfg Config, svc Services) *gin.Engine {
	accountHandler := handlers.NewAccountHandler(svc.Accounts, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
	scheduledHandler := handlers.NewScheduledTransactionHandler(svc.Scheduled, svc.Audit)
	chatHandler := handlers.NewChatHandler(svc.Chat)
	pipelineHandler := handlers.NewPipelineHandler(svc.Scheduled, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Scheduler routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/rollover", pipelineHandler.RolloverAll)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	accounts := protected.Group("/accounts")
	accounts.GET("", accountHandler.ListAccounts)
	accounts.POST("", accountHandler.CreateAccount)
	accounts.POST("/bulk-delete", accountHandler.BulkDeleteAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PATCH("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.PATCH("/:id/budget", accountHandler.SetBudget)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.POST("/bulk-delete", categoryHandler.BulkDeleteCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.POST("/bulk-delete", transactionHandler.BulkDeleteTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	scheduled := protected.Group("/scheduled-transactions")
	scheduled.GET("", scheduledHandler.ListScheduledTransactions)
	scheduled.POST("", scheduledHandler.CreateScheduledTransaction)
	scheduled.POST("/rollover", scheduledHandler.Rollover)
	scheduled.GET("/:id", scheduledHandler.GetScheduledTransaction)
	scheduled.DELETE("/:id", scheduledHandler.DeleteScheduledTransaction)

	protected.POST("/chat", chatHandler.Reply)

	return router
}
