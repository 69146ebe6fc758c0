package supportControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/ayurmart/ayurmart-api/middleware"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/ayurmart/ayurmart-api/uploads"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateTicket opens a support ticket. Multipart so an attachment (image or
// PDF) can be included. Form fields: subject, message, attachment.
func CreateTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		subject := c.PostForm("subject")
		message := c.PostForm("message")
		if subject == "" || message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subject and message are required"})
			return
		}

		var attachment string
		if fh, err := c.FormFile("attachment"); err == nil {
			attachment, err = uploads.Save(fh, "tickets", uploads.MaxAttachmentSize, uploads.ReceiptMimeTypes)
			if err != nil {
				if errors.Is(err, uploads.ErrTooLarge) || errors.Is(err, uploads.ErrBadMimeType) {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attachment"})
				return
			}
		}

		ticket := models.Ticket{
			UserID:     userID,
			Subject:    subject,
			Message:    message,
			Attachment: attachment,
			Status:     models.TicketStatusNew,
		}
		if err := db.Create(&ticket).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ticket"})
			return
		}

		c.JSON(http.StatusCreated, ticket)
	}
}

// GET /api/support/tickets — the caller's own tickets.
func GetUserTickets(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var tickets []models.Ticket
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tickets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets"})
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

// GET /api/admin/tickets
func GetAllTickets(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tickets []models.Ticket
		query := db.Preload("User").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if err := query.Find(&tickets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tickets"})
			return
		}
		c.JSON(http.StatusOK, tickets)
	}
}

// UpdateTicketStatus moves a ticket along new → in_progress → resolved.
// The opener is emailed on every change; a failed send is logged by the
// mailer and never fails the request.
func UpdateTicketStatus(db *gorm.DB, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TicketStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		status, err := models.ParseTicketStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var ticket models.Ticket
		if err := db.Preload("User").First(&ticket, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.Model(&ticket).Update("status", status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ticket"})
			return
		}

		mailer.SendAsync(m, ticket.User.Email,
			fmt.Sprintf("Ticket #%d: %s", ticket.ID, status),
			fmt.Sprintf("Hello %s,<br><br>Your support ticket %q is now %s.",
				ticket.User.Name, ticket.Subject, status))

		c.JSON(http.StatusOK, ticket)
	}
}

// DELETE /api/support/tickets/:id — owner may remove a resolved ticket.
func DeleteTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var ticket models.Ticket
		if err := db.First(&ticket, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
			return
		}
		if ticket.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Ticket belongs to another user"})
			return
		}

		if ticket.Attachment != "" {
			_ = uploads.Remove(ticket.Attachment)
		}
		if err := db.Delete(&ticket).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ticket"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted"})
	}
}
