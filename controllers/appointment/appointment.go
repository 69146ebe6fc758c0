package appointmentControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/ayurmart/ayurmart-api/middleware"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookAppointmentRequest struct {
	DoctorID    uint      `json:"doctor_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Reason      string    `json:"reason"`
}

type DecisionRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// POST /api/appointments — patient books a slot with an approved doctor.
func BookAppointment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		patientID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req BookAppointmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if req.ScheduledAt.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be in the future"})
			return
		}

		var doctor models.User
		err := db.Where("id = ? AND role = ? AND is_approved = ?", req.DoctorID, models.RoleDoctor, true).
			First(&doctor).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Doctor not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		appt := models.Appointment{
			PatientID:   patientID,
			DoctorID:    doctor.ID,
			ScheduledAt: req.ScheduledAt,
			Reason:      req.Reason,
			Status:      models.AppointmentStatusPending,
		}
		if err := db.Create(&appt).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book appointment"})
			return
		}

		c.JSON(http.StatusCreated, appt)
	}
}

// GET /api/appointments — the caller's own bookings.
func GetPatientAppointments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		patientID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var appts []models.Appointment
		if err := db.
			Where("patient_id = ?", patientID).
			Preload("Doctor").
			Order("scheduled_at ASC").
			Find(&appts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
			return
		}
		c.JSON(http.StatusOK, appts)
	}
}

// GET /api/appointments/schedule — the doctor's own schedule.
func GetDoctorSchedule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		doctorID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var appts []models.Appointment
		if err := db.
			Where("doctor_id = ?", doctorID).
			Preload("Patient").
			Order("scheduled_at ASC").
			Find(&appts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
			return
		}
		c.JSON(http.StatusOK, appts)
	}
}

// PATCH /api/appointments/:id/decision — doctor approves or rejects a
// pending booking; the patient is emailed best-effort.
func DecideAppointment(db *gorm.DB, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		doctorID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req DecisionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		decision, err := models.ParseAppointmentDecision(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var appt models.Appointment
		if err := db.Preload("Patient").First(&appt, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if appt.DoctorID != doctorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Appointment belongs to another doctor"})
			return
		}
		if appt.Status != models.AppointmentStatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment has already been decided"})
			return
		}

		if err := db.Model(&appt).Updates(map[string]interface{}{
			"status":      decision,
			"doctor_note": req.Note,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update appointment"})
			return
		}

		mailer.SendAsync(m, appt.Patient.Email,
			fmt.Sprintf("Your appointment was %s", decision),
			fmt.Sprintf("Hello %s,<br><br>Your appointment on %s has been %s.<br>%s",
				appt.Patient.Name, appt.ScheduledAt.Format("2 Jan 2006 15:04"), decision, req.Note))

		c.JSON(http.StatusOK, appt)
	}
}

// POST /api/appointments/:id/cancel — patient cancels a booking that has
// not been decided or has been approved; past appointments stay untouched.
func CancelAppointment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		patientID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var appt models.Appointment
		if err := db.First(&appt, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if appt.PatientID != patientID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Appointment belongs to another patient"})
			return
		}
		if appt.Status == models.AppointmentStatusCancelled || appt.Status == models.AppointmentStatusRejected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Appointment is not active"})
			return
		}

		if err := db.Model(&appt).Update("status", models.AppointmentStatusCancelled).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel appointment"})
			return
		}
		c.JSON(http.StatusOK, appt)
	}
}
