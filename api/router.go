package api

import (
	"github.com/fyerfyer/civic-doc-system/api/handler"
	"github.com/fyerfyer/civic-doc-system/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the API endpoints and global middleware.
func SetupRouter(docHandler *handler.DocumentHandler) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())
	router.Use(middleware.SetTraceID())

	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
	}

	api := router.Group("/api")
	{
		docGroup := api.Group("/documents")
		{
			// upload a document - POST /api/documents
			docGroup.POST("", docHandler.UploadDocument)

			// get processing status - GET /api/documents/:id/status
			docGroup.GET("/:id/status", docHandler.GetDocumentStatus)

			// list documents - GET /api/documents
			docGroup.GET("", docHandler.ListDocuments)

			// delete a document - DELETE /api/documents/:id
			docGroup.DELETE("/:id", docHandler.DeleteDocument)
		}

		// process raw text inline - POST /api/process
		api.POST("/process", docHandler.ProcessText)

		// search processed records - GET /api/records/search
		api.GET("/records/search", docHandler.SearchRecords)

		// health check - GET /api/health
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})
	}

	return router
}

// Cors allows cross-origin requests when the API serves a browser UI.
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
