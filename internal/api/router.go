package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hillview/occupancy-backend-go/internal/config"
	"github.com/hillview/occupancy-backend-go/internal/handler"
	"github.com/hillview/occupancy-backend-go/internal/middleware"
	"github.com/hillview/occupancy-backend-go/internal/repository"
	"github.com/hillview/occupancy-backend-go/internal/service"
)

// SetupRouter wires repositories, services and handlers into the gin engine
func SetupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Api-Secret")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Occupancy Backend API is running",
		})
	})

	stopRecordRepo := repository.NewStopRecordRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	stopRecordHandler := handler.NewStopRecordHandler(
		service.NewStopRecordService(stopRecordRepo, cfg.DataDir))
	scenarioHandler := handler.NewScenarioHandler(
		service.NewScenarioService(db, cfg.DefaultBinMins))
	taskHandler := handler.NewTaskHandler(service.NewTaskService(taskRepo))
	authHandler := handler.NewAuthHandler(cfg.JWTSecret)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateWindow))

	api.POST("/auth/token", authHandler.IssueToken)

	protected := api.Group("")
	if cfg.AuthEnabled {
		protected.Use(middleware.Auth(cfg.JWTSecret))
	}

	stopRecords := protected.Group("/stop-records")
	{
		stopRecords.GET("", stopRecordHandler.GetStopRecords)
		stopRecords.GET("/:id", stopRecordHandler.GetStopRecordByID)
		stopRecords.POST("/ingest", stopRecordHandler.Ingest)
	}

	scenarios := protected.Group("/scenarios")
	{
		scenarios.POST("", scenarioHandler.CreateScenario)
		scenarios.GET("", scenarioHandler.ListScenarios)
		scenarios.GET("/:id", scenarioHandler.GetScenarioByID)
		scenarios.GET("/:id/bydate", scenarioHandler.GetBydate)
		scenarios.GET("/:id/summary", scenarioHandler.GetSummary)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", taskHandler.GetTaskByID)
	}

	return r
}
