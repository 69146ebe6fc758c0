package routes

import (
	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up every route group
// under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB, m mailer.Mailer) {
	api := r.Group("/api")

	SetupAuthRoutes(api, db, m)
	SetupPublicRoutes(api, db)
	SetupUserRoutes(api, db, m)
	SetupDoctorRoutes(api, db, m)
	SetupAdminRoutes(api, db, m)
}
