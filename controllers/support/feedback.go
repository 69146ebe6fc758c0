package supportControllers

import (
	"errors"
	"net/http"

	"github.com/ayurmart/ayurmart-api/middleware"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FeedbackInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// POST /api/feedback
func CreateFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input FeedbackInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		feedback := models.Feedback{
			UserID:  userID,
			Rating:  input.Rating,
			Comment: input.Comment,
		}
		if err := db.Create(&feedback).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit feedback"})
			return
		}

		c.JSON(http.StatusCreated, feedback)
	}
}

// GET /api/feedback — public listing, approved entries only.
func GetApprovedFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var feedback []models.Feedback
		if err := db.
			Preload("User").
			Where("approved = ?", true).
			Order("created_at DESC").
			Find(&feedback).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
			return
		}
		c.JSON(http.StatusOK, feedback)
	}
}

// GET /api/admin/feedback — everything, including unapproved.
func GetAllFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var feedback []models.Feedback
		if err := db.Preload("User").Order("created_at DESC").Find(&feedback).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
			return
		}
		c.JSON(http.StatusOK, feedback)
	}
}

// PATCH /api/admin/feedback/:id/approve
func ApproveFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Approved bool `json:"approved"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var feedback models.Feedback
		if err := db.First(&feedback, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.Model(&feedback).Update("approved", req.Approved).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update feedback"})
			return
		}
		c.JSON(http.StatusOK, feedback)
	}
}

// DELETE /api/feedback/:id — owner or admin.
func DeleteFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		roleVal, _ := c.Get("role")

		var feedback models.Feedback
		if err := db.First(&feedback, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
			return
		}
		if feedback.UserID != userID && roleVal != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Feedback belongs to another user"})
			return
		}

		if err := db.Delete(&feedback).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
	}
}
