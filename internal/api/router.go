package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mschlachter/ocis-app-tokens/internal/api/handlers"
	"github.com/mschlachter/ocis-app-tokens/internal/models"
	"github.com/mschlachter/ocis-app-tokens/internal/tokenstore"
	"gorm.io/gorm"
)

// SetupRouter wires the development backend: the /auth-app/tokens surface the
// panel mutates and the read-only graph drives listing.
func SetupRouter(db *gorm.DB, drives []models.Endpoint) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "ocis-app-tokens",
		})
	})

	setupTokenRoutes(router, db)
	setupDriveRoutes(router, drives)

	return router
}

// setupTokenRoutes registers the token API under /auth-app/tokens. The
// protocol is query-parameter based: POST ?expiry=<dur>[&label=..],
// DELETE ?token=<value>.
func setupTokenRoutes(router *gin.Engine, db *gorm.DB) {
	repo := tokenstore.NewRepository(db)
	service := tokenstore.NewService(repo)
	handler := handlers.NewTokenHandler(service)

	tokens := router.Group("/auth-app/tokens")
	{
		tokens.GET("", handler.ListTokens)
		tokens.POST("", handler.CreateToken)
		tokens.DELETE("", handler.DeleteToken)
	}
}

// setupDriveRoutes registers the graph drives listing.
func setupDriveRoutes(router *gin.Engine, drives []models.Endpoint) {
	handler := handlers.NewDrivesHandler(drives)

	graph := router.Group("/graph/v1.0")
	{
		graph.GET("/me/drives", handler.ListDrives)
	}
}
