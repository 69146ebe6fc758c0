package supportControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InquiryInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type InquiryReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// POST /api/support/inquiries — public contact form, no account needed.
func CreateInquiry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input InquiryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		inquiry := models.Inquiry{
			Name:    input.Name,
			Email:   input.Email,
			Subject: input.Subject,
			Message: input.Message,
			Status:  models.InquiryStatusOpen,
		}
		if err := db.Create(&inquiry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit inquiry"})
			return
		}

		c.JSON(http.StatusCreated, inquiry)
	}
}

// GET /api/admin/inquiries
func GetAllInquiries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inquiries []models.Inquiry
		query := db.Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if err := query.Find(&inquiries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inquiries"})
			return
		}
		c.JSON(http.StatusOK, inquiries)
	}
}

// ReplyInquiry stores the admin reply, marks the inquiry answered and
// emails the submitter best-effort.
func ReplyInquiry(db *gorm.DB, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InquiryReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var inquiry models.Inquiry
		if err := db.First(&inquiry, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.Model(&inquiry).Updates(map[string]interface{}{
			"status": models.InquiryStatusAnswered,
			"reply":  req.Reply,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reply to inquiry"})
			return
		}

		mailer.SendAsync(m, inquiry.Email,
			fmt.Sprintf("Re: %s", inquiry.Subject),
			fmt.Sprintf("Hello %s,<br><br>%s", inquiry.Name, req.Reply))

		c.JSON(http.StatusOK, inquiry)
	}
}

// DELETE /api/admin/inquiries/:id
func DeleteInquiry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Inquiry{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inquiry"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Inquiry not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Inquiry deleted"})
	}
}
