package app

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MilBia/Suchar-Overflow/internal/handlers"
	"github.com/MilBia/Suchar-Overflow/internal/logger"
	"github.com/MilBia/Suchar-Overflow/internal/middleware"
	"github.com/MilBia/Suchar-Overflow/internal/utils"
)

func wireRouter(log *logger.Logger, handlerset Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	router := gin.Default()

	origins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000", log)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(auth.RequireAuth())

	api.GET("/achievements", handlerset.Achievement.List)
	api.GET("/achievements/unseen", handlerset.Achievement.Unseen)
	api.POST("/achievements/:id/seen", handlerset.Achievement.MarkSeen)

	api.POST("/suchary", handlerset.Suchar.Create)
	api.POST("/suchary/:id/votes", handlerset.Suchar.Vote)

	return router
}
