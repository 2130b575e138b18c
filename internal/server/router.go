package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all receipt routes registered.
func NewRouter(h *ReceiptHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 8 MB is plenty for a receipt photo.
	router.MaxMultipartMemory = 8 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "receipt-extractor"})
	})

	v1 := router.Group("/v1")
	{
		v1.GET("/categories", h.Categories)

		receipts := v1.Group("/receipts")
		{
			receipts.POST("", h.Create)
			receipts.GET("", h.List)
			receipts.GET("/export", h.Export)
			receipts.GET("/:id", h.Get)
		}
	}
	return router
}
