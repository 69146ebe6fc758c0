package adminControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AccountRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ListPendingAccounts returns doctor and supplier signups awaiting approval.
func ListPendingAccounts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.User
		if err := db.
			Where("is_approved = ? AND role IN ?", false,
				[]models.Role{models.RoleDoctor, models.RoleSupplier}).
			Order("created_at asc").
			Find(&pending).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending accounts"})
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func ApproveAccount(db *gorm.DB, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.Model(&user).Update("is_approved", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve account"})
			return
		}

		mailer.SendAsync(m, user.Email, "Your AyurMart account is approved",
			fmt.Sprintf("Hello %s,<br><br>Your %s account has been approved. You can now log in.", user.Name, user.Role))

		c.JSON(http.StatusOK, gin.H{"message": "Account approved"})
	}
}

// RejectAccount removes the pending signup entirely.
func RejectAccount(db *gorm.DB, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AccountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		var user models.User
		if err := db.Where("email = ? AND is_approved = ?", req.Email, false).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Pending account not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject account"})
			return
		}

		mailer.SendAsync(m, user.Email, "Your AyurMart registration",
			fmt.Sprintf("Hello %s,<br><br>Unfortunately your %s registration was not approved.", user.Name, user.Role))

		c.JSON(http.StatusOK, gin.H{"message": "Account rejected"})
	}
}
