package routes

import (
	appointmentControllers "github.com/ayurmart/ayurmart-api/controllers/appointment"
	cartControllers "github.com/ayurmart/ayurmart-api/controllers/cart"
	orderControllers "github.com/ayurmart/ayurmart-api/controllers/order"
	receiptControllers "github.com/ayurmart/ayurmart-api/controllers/receipt"
	supportControllers "github.com/ayurmart/ayurmart-api/controllers/support"
	userControllers "github.com/ayurmart/ayurmart-api/controllers/user"
	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/ayurmart/ayurmart-api/middleware"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupUserRoutes registers endpoints for any authenticated account.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB, m mailer.Mailer) {
	userGroup := api.Group("")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Profile ────────────────
		userGroup.GET("/users/me", userControllers.GetUser(db))
		userGroup.PUT("/users/me", userControllers.UpdateUser(db))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))
			cartGroup.POST("/items", cartControllers.UpdateCartItem(db))
			cartGroup.PATCH("/items", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("/items/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("", cartControllers.ClearUserCart(db))
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/checkout", orderControllers.CheckoutHandler(db))
			orderGroup.GET("", orderControllers.GetUserOrdersHandler(db))
			orderGroup.POST("/:id/cancel", orderControllers.CancelOrderHandler(db))
		}

		// ──────────────── Receipts ────────────────
		receiptGroup := userGroup.Group("/receipts")
		{
			receiptGroup.POST("", receiptControllers.UploadReceipt(db))
			receiptGroup.GET("", receiptControllers.GetUserReceipts(db))
		}

		// ──────────────── Appointments ────────────────
		apptGroup := userGroup.Group("/appointments")
		{
			apptGroup.POST("", appointmentControllers.BookAppointment(db))
			apptGroup.GET("", appointmentControllers.GetPatientAppointments(db))
			apptGroup.POST("/:id/cancel", appointmentControllers.CancelAppointment(db))
		}

		// ──────────────── Support ────────────────
		userGroup.POST("/support/tickets", supportControllers.CreateTicket(db))
		userGroup.GET("/support/tickets", supportControllers.GetUserTickets(db))
		userGroup.DELETE("/support/tickets/:id", supportControllers.DeleteTicket(db))
		userGroup.POST("/feedback", supportControllers.CreateFeedback(db))
		userGroup.DELETE("/feedback/:id", supportControllers.DeleteFeedback(db))
	}
}

// SetupDoctorRoutes registers the doctor-only schedule endpoints.
func SetupDoctorRoutes(api *gin.RouterGroup, db *gorm.DB, m mailer.Mailer) {
	doctorGroup := api.Group("/appointments")
	doctorGroup.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleDoctor))
	{
		doctorGroup.GET("/schedule", appointmentControllers.GetDoctorSchedule(db))
		doctorGroup.PATCH("/:id/decision", appointmentControllers.DecideAppointment(db, m))
	}
}
