package routes

import (
	adminControllers "github.com/ayurmart/ayurmart-api/controllers/admin"
	cartControllers "github.com/ayurmart/ayurmart-api/controllers/cart"
	orderControllers "github.com/ayurmart/ayurmart-api/controllers/order"
	productControllers "github.com/ayurmart/ayurmart-api/controllers/product"
	receiptControllers "github.com/ayurmart/ayurmart-api/controllers/receipt"
	supportControllers "github.com/ayurmart/ayurmart-api/controllers/support"
	userControllers "github.com/ayurmart/ayurmart-api/controllers/user"
	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/ayurmart/ayurmart-api/middleware"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all /api/admin endpoints plus the
// supplier-shared product management routes.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB, m mailer.Mailer) {
	// Product management is shared between admins and suppliers.
	productMgmt := api.Group("/products")
	productMgmt.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleAdmin, models.RoleSupplier))
	{
		productMgmt.POST("", productControllers.CreateProduct(db))
		productMgmt.PATCH("/:id", productControllers.UpdateProduct(db))
		productMgmt.DELETE("/:id", productControllers.DeleteProduct(db))
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleAdmin))
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(db))

		// ─────────── Account Approval Workflow ───────────
		accountMgmt := adminGroup.Group("/accounts")
		{
			accountMgmt.GET("/pending", adminControllers.ListPendingAccounts(db))
			accountMgmt.POST("/approve", adminControllers.ApproveAccount(db, m))
			accountMgmt.POST("/reject", adminControllers.RejectAccount(db, m))
		}

		// ─────────── Category Management ───────────
		categoryMgmt := adminGroup.Group("/categories")
		{
			categoryMgmt.POST("", productControllers.CreateCategory(db))
			categoryMgmt.PATCH("/:id", productControllers.UpdateCategory(db))
			categoryMgmt.DELETE("/:id", productControllers.DeleteCategory(db))
		}

		// ─────────── Orders ───────────
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		adminGroup.PATCH("/orders/:id", orderControllers.UpdateOrderHandler(db))
		adminGroup.GET("/orders/feed", orderControllers.OrderFeedHandler)

		// ─────────── Receipts ───────────
		adminGroup.GET("/receipts", receiptControllers.GetAllReceipts(db))
		adminGroup.PATCH("/receipts/:id/review", receiptControllers.ReviewReceipt(db, m))

		// ─────────── Support ───────────
		adminGroup.GET("/tickets", supportControllers.GetAllTickets(db))
		adminGroup.PATCH("/tickets/:id/status", supportControllers.UpdateTicketStatus(db, m))
		adminGroup.GET("/inquiries", supportControllers.GetAllInquiries(db))
		adminGroup.PATCH("/inquiries/:id/reply", supportControllers.ReplyInquiry(db, m))
		adminGroup.DELETE("/inquiries/:id", supportControllers.DeleteInquiry(db))
		adminGroup.GET("/feedback", supportControllers.GetAllFeedback(db))
		adminGroup.PATCH("/feedback/:id/approve", supportControllers.ApproveFeedback(db))

		// ─────────── Reporting ───────────
		adminGroup.GET("/export/products", adminControllers.ExportProductsToExcel(db))
		adminGroup.GET("/export/orders", adminControllers.ExportOrdersToExcel(db))

		// ─────────── Cart Inspection ───────────
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(db))
	}
}
