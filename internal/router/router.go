// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ismaelcabanas/home-inventory-backend/internal/handlers"
	"github.com/ismaelcabanas/home-inventory-backend/internal/middleware"
	"github.com/ismaelcabanas/home-inventory-backend/internal/services"
)

type Services struct {
	Inventory    *services.InventoryService
	ShoppingList *services.ShoppingListService
	Receipts     *services.ReceiptService
}

func Initialize(svc Services) *gin.Engine {
	inventoryHandler := handlers.NewInventoryHandler(svc.Inventory)
	shoppingListHandler := handlers.NewShoppingListHandler(svc.ShoppingList)
	receiptHandler := handlers.NewReceiptHandler(svc.Receipts)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", inventoryHandler.GetProducts)
			products.POST("", inventoryHandler.CreateProduct)
			products.GET("/:id", inventoryHandler.GetProduct)
			products.PATCH("/:id", inventoryHandler.UpdateProduct)
			products.DELETE("/:id", inventoryHandler.DeleteProduct)
			products.POST("/:id/cycle-stock", inventoryHandler.CycleStockLevel)
		}

		shoppingList := v1.Group("/shopping-list")
		{
			shoppingList.GET("", shoppingListHandler.GetListItems)
			shoppingList.GET("/count", shoppingListHandler.GetListCount)
			shoppingList.GET("/progress", shoppingListHandler.GetProgress)
			shoppingList.GET("/mode", shoppingListHandler.GetShoppingMode)
			shoppingList.PUT("/mode", shoppingListHandler.SetShoppingMode)
			shoppingList.POST("/:id", shoppingListHandler.AddToList)
			shoppingList.DELETE("/:id", shoppingListHandler.RemoveFromList)
			shoppingList.PUT("/:id/checked", shoppingListHandler.UpdateCheckedState)
		}

		receipts := v1.Group("/receipts")
		{
			receipts.POST("", middleware.ReceiptRateLimit(), receiptHandler.SubmitImage)
			receipts.GET("/sessions", receiptHandler.GetReviewSessions)
			receipts.GET("/sessions/:id", receiptHandler.GetSession)
			receipts.POST("/sessions/:id/candidates", receiptHandler.AddCandidate)
			receipts.PUT("/sessions/:id/candidates/:candidateId", receiptHandler.EditCandidate)
			receipts.DELETE("/sessions/:id/candidates/:candidateId", receiptHandler.RemoveCandidate)
			receipts.POST("/sessions/:id/confirm", receiptHandler.ConfirmReview)
			receipts.POST("/sessions/:id/commit", receiptHandler.CommitToInventory)
			receipts.POST("/sessions/:id/retry", receiptHandler.RetryCommit)
			receipts.POST("/sessions/:id/clear-error", receiptHandler.ClearError)
			receipts.GET("/pending-count", receiptHandler.GetPendingCount)
			receipts.POST("/drain", receiptHandler.DrainOfflineQueue)
			receipts.GET("/scans", receiptHandler.GetScans)
		}
	}

	return r
}
