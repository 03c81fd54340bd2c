package api

import (
	"runam-backend/internal/middleware"
	"runam-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(handlers *Handlers, jwtService *services.JWTService, adminKey string) *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/token", handlers.DevTokenHandler)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.AuthenticateUser(jwtService))
		{
			tasks.POST("", handlers.CreateTaskHandler)
			tasks.GET("/nearby", handlers.NearbyTasksHandler)
			tasks.GET("/:taskId", handlers.GetTaskHandler)
			tasks.GET("/:taskId/history", handlers.TaskHistoryHandler)
			tasks.POST("/:taskId/accept", handlers.AcceptTaskHandler)

			tasks.PUT("/:taskId/payment/mark-paid", handlers.MarkPaidHandler)
			tasks.PUT("/:taskId/payment/confirm", handlers.ConfirmPaymentHandler)
			tasks.PUT("/:taskId/payment/dispute", handlers.DisputePaymentHandler)

			tasks.PUT("/:taskId/completion/mark-completed", handlers.MarkCompletedHandler)
			tasks.PUT("/:taskId/completion/confirm", handlers.ConfirmCompletionHandler)
			tasks.PUT("/:taskId/completion/dispute", handlers.DisputeCompletionHandler)
		}

		reports := api.Group("/reports")
		reports.Use(middleware.AuthenticateUser(jwtService))
		{
			reports.POST("", handlers.FileReportHandler)
		}

		chats := api.Group("/chats")
		chats.Use(middleware.AuthenticateUser(jwtService))
		{
			chats.GET("/my-chats", handlers.MyChatsHandler)
			chats.GET("/task/:taskId", handlers.ChatForTaskHandler)
			chats.GET("/:chatId/messages", handlers.ListMessagesHandler)
			chats.POST("/:chatId/messages", handlers.SendMessageHandler)
			chats.GET("/:chatId/stream", handlers.StreamMessagesHandler)
		}

		// Manual review: the only path that unfreezes a task
		admin := api.Group("/admin")
		admin.Use(middleware.AuthenticateUser(jwtService), middleware.RequireAdmin(adminKey))
		{
			admin.PUT("/tasks/:taskId/resolve", handlers.ResolveTaskHandler)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Admin-Key")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
