package routes

import (
	authControllers "github.com/ayurmart/ayurmart-api/controllers/auth"
	productControllers "github.com/ayurmart/ayurmart-api/controllers/product"
	supportControllers "github.com/ayurmart/ayurmart-api/controllers/support"
	userControllers "github.com/ayurmart/ayurmart-api/controllers/user"
	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers the public /api/auth endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB, m mailer.Mailer) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", authControllers.Signup(db, m))
		authGroup.POST("/login", authControllers.Login(db))
		authGroup.GET("/verify", authControllers.VerifyEmail(db))
	}
}

// SetupPublicRoutes registers unauthenticated browse endpoints.
func SetupPublicRoutes(api *gin.RouterGroup, db *gorm.DB) {
	api.GET("/products", productControllers.GetProducts(db))
	api.GET("/products/:id", productControllers.GetProductByID(db))
	api.GET("/categories", productControllers.GetAllCategories(db))
	api.GET("/doctors", userControllers.GetDoctors(db))
	api.GET("/feedback", supportControllers.GetApprovedFeedback(db))
	api.POST("/support/inquiries", supportControllers.CreateInquiry(db))
}
