package receiptControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/ayurmart/ayurmart-api/middleware"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/ayurmart/ayurmart-api/uploads"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// UploadReceipt accepts a multipart bank-transfer proof. The file is
// validated (size ceiling, mime allow-list) before any row is written.
// Form fields: bank, amount, payment_method, order_id | appointment_id, file.
func UploadReceipt(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		bank := c.PostForm("bank")
		amountStr := c.PostForm("amount")
		if bank == "" || amountStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bank and amount are required"})
			return
		}
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil || amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}

		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}

		var orderID, appointmentID *uint
		if v := c.PostForm("order_id"); v != "" {
			id, parseErr := strconv.ParseUint(v, 10, 64)
			if parseErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id"})
				return
			}
			var order models.Order
			if err := db.First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Order not found"})
				return
			}
			u := uint(id)
			orderID = &u
		}
		if v := c.PostForm("appointment_id"); v != "" {
			id, parseErr := strconv.ParseUint(v, 10, 64)
			if parseErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment_id"})
				return
			}
			var appt models.Appointment
			if err := db.First(&appt, "id = ? AND patient_id = ?", id, userID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment not found"})
				return
			}
			u := uint(id)
			appointmentID = &u
		}

		fileURL, err := uploads.Save(fh, "receipts", uploads.MaxReceiptSize, uploads.ReceiptMimeTypes)
		if err != nil {
			if errors.Is(err, uploads.ErrTooLarge) || errors.Is(err, uploads.ErrBadMimeType) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}

		receipt := models.Receipt{
			UserID:        userID,
			OrderID:       orderID,
			AppointmentID: appointmentID,
			Bank:          bank,
			Amount:        amount,
			PaymentMethod: c.PostForm("payment_method"),
			FileName:      fh.Filename,
			FileURL:       fileURL,
			FileSize:      fh.Size,
			Status:        models.ReceiptStatusPending,
		}

		if err := db.Create(&receipt).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save receipt"})
			return
		}

		c.JSON(http.StatusCreated, receipt)
	}
}

// GET /api/receipts — the caller's own receipts.
func GetUserReceipts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var receipts []models.Receipt
		if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&receipts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch receipts"})
			return
		}
		c.JSON(http.StatusOK, receipts)
	}
}

// GET /api/admin/receipts
func GetAllReceipts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var receipts []models.Receipt
		query := db.Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if err := query.Find(&receipts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch receipts"})
			return
		}
		c.JSON(http.StatusOK, receipts)
	}
}

// ReviewReceipt flips a pending receipt to APPROVED or REJECTED, recording
// the reviewer and an optional comment. The uploader is notified by email
// on a best-effort basis.
func ReviewReceipt(db *gorm.DB, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewerID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		decision, err := models.ParseReceiptDecision(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var receipt models.Receipt
		if err := db.First(&receipt, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if receipt.Status != models.ReceiptStatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt has already been reviewed"})
			return
		}

		now := time.Now()
		if err := db.Model(&receipt).Updates(map[string]interface{}{
			"status":         decision,
			"reviewed_by":    reviewerID,
			"reviewed_at":    now,
			"review_comment": req.Comment,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to review receipt"})
			return
		}

		var uploader models.User
		if err := db.First(&uploader, "id = ?", receipt.UserID).Error; err == nil {
			mailer.SendAsync(m, uploader.Email,
				fmt.Sprintf("Your payment receipt was %s", decision),
				fmt.Sprintf("Hello %s,<br><br>Your receipt #%d (%s, %.2f) has been %s.<br>%s",
					uploader.Name, receipt.ID, receipt.Bank, receipt.Amount, decision, req.Comment))
		}

		c.JSON(http.StatusOK, receipt)
	}
}
