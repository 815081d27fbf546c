package routes

import (
	"net/http"

	"tracker-api/internal/auth"
	"tracker-api/internal/handlers"
	"tracker-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Deps bundles what the router needs. Metrics may be nil to disable /metrics.
type Deps struct {
	Handler *handlers.Handler
	Tokens  *auth.Manager
	Metrics http.Handler
}

func SetupRoutes(deps Deps) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Tracker API is running",
		})
	})

	if deps.Metrics != nil {
		ginRouter.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	h := deps.Handler

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", h.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		protectedRoutes.GET("/tasks", h.GetTasks)
		protectedRoutes.GET("/tasks/:id", h.GetTaskByID)
		protectedRoutes.POST("/tasks", h.CreateTask)
		protectedRoutes.PUT("/tasks/:id", h.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
		protectedRoutes.DELETE("/tasks/:id", h.DeleteTask)
		protectedRoutes.GET("/stats/:userid", h.GetStatsByUser)

		protectedRoutes.GET("/journals", h.GetJournals)
		protectedRoutes.GET("/journals/:id", h.GetJournalByID)
		protectedRoutes.POST("/journals", h.CreateJournal)
		protectedRoutes.PUT("/journals/:id", h.UpdateJournal)
		protectedRoutes.DELETE("/journals/:id", h.DeleteJournal)

		protectedRoutes.GET("/workouts", h.GetWorkouts)
		protectedRoutes.GET("/workouts/summary", h.GetWorkoutSummary)
		protectedRoutes.POST("/workouts", h.CreateWorkout)
		protectedRoutes.DELETE("/workouts/:id", h.DeleteWorkout)

		protectedRoutes.GET("/users", h.GetAllUsers)
		protectedRoutes.GET("/cache/stats", h.GetCacheStats)
		protectedRoutes.GET("/ws", h.WebSocket)
	}

	return ginRouter
}
