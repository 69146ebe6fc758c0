package appointmentControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authControllers "github.com/ayurmart/ayurmart-api/controllers/auth"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/ayurmart/ayurmart-api/routes"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *recordingMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Cart{}, &models.CartItem{},
		&models.Product{}, &models.Category{},
		&models.Appointment{},
	))

	m := &recordingMailer{}
	r := gin.New()
	routes.SetupRoutes(r, db, m)
	return r, db, m
}

func newUser(t *testing.T, db *gorm.DB, role models.Role, email, mobile string) (models.User, string) {
	t.Helper()
	user := models.User{
		Name: "Test " + string(role), Email: email, Mobile: mobile,
		PasswordHash: "x", Role: role, IsVerified: true, IsApproved: true,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := authControllers.IssueToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBookAndDecideAppointment(t *testing.T) {
	r, db, m := newTestRouter(t)
	patient, patientAuth := newUser(t, db, models.RoleUser, "patient@example.com", "0711111111")
	doctor, doctorAuth := newUser(t, db, models.RoleDoctor, "doctor@example.com", "0712222222")

	w := doJSON(t, r, http.MethodPost, "/api/appointments", patientAuth, map[string]any{
		"doctor_id":    doctor.ID,
		"scheduled_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"reason":       "Persistent back pain",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var appt models.Appointment
	require.NoError(t, db.First(&appt).Error)
	require.Equal(t, patient.ID, appt.PatientID)
	require.Equal(t, models.AppointmentStatusPending, appt.Status)

	// The doctor sees it on their schedule.
	w = doJSON(t, r, http.MethodGet, "/api/appointments/schedule", doctorAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var schedule []models.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &schedule))
	require.Len(t, schedule, 1)

	// Unknown decisions are rejected.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/appointments/%d/decision", appt.ID),
		doctorAuth, map[string]string{"status": "POSTPONED"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/appointments/%d/decision", appt.ID),
		doctorAuth, map[string]string{"status": "APPROVED", "note": "Bring previous reports"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, db.First(&appt).Error)
	require.Equal(t, models.AppointmentStatusApproved, appt.Status)
	require.Equal(t, "Bring previous reports", appt.DoctorNote)

	// The patient is notified by mail.
	require.Eventually(t, func() bool { return m.count() == 1 }, time.Second, 10*time.Millisecond)

	// Decided appointments cannot be decided again.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/appointments/%d/decision", appt.ID),
		doctorAuth, map[string]string{"status": "REJECTED"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingValidation(t *testing.T) {
	r, db, _ := newTestRouter(t)
	_, patientAuth := newUser(t, db, models.RoleUser, "p2@example.com", "0713333333")
	doctor, _ := newUser(t, db, models.RoleDoctor, "d2@example.com", "0714444444")

	// Past slot.
	w := doJSON(t, r, http.MethodPost, "/api/appointments", patientAuth, map[string]any{
		"doctor_id":    doctor.ID,
		"scheduled_at": time.Now().Add(-time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown doctor.
	w = doJSON(t, r, http.MethodPost, "/api/appointments", patientAuth, map[string]any{
		"doctor_id":    9999,
		"scheduled_at": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecisionRestrictedToOwningDoctor(t *testing.T) {
	r, db, _ := newTestRouter(t)
	patient, patientAuth := newUser(t, db, models.RoleUser, "p3@example.com", "0715555555")
	doctor, _ := newUser(t, db, models.RoleDoctor, "d3@example.com", "0716666666")
	_, otherDoctorAuth := newUser(t, db, models.RoleDoctor, "d4@example.com", "0717777777")

	appt := models.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Status:      models.AppointmentStatusPending,
	}
	require.NoError(t, db.Create(&appt).Error)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/appointments/%d/decision", appt.ID),
		otherDoctorAuth, map[string]string{"status": "APPROVED"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Patients cannot reach the decision endpoint at all.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/appointments/%d/decision", appt.ID),
		patientAuth, map[string]string{"status": "APPROVED"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestPatientCancelsOwnAppointment(t *testing.T) {
	r, db, _ := newTestRouter(t)
	patient, patientAuth := newUser(t, db, models.RoleUser, "p5@example.com", "0718888888")
	doctor, _ := newUser(t, db, models.RoleDoctor, "d5@example.com", "0719999999")

	appt := models.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID,
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Status:      models.AppointmentStatusApproved,
	}
	require.NoError(t, db.Create(&appt).Error)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", appt.ID),
		patientAuth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&appt, appt.ID).Error)
	require.Equal(t, models.AppointmentStatusCancelled, appt.Status)

	// Cancelling again is rejected.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", appt.ID),
		patientAuth, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
