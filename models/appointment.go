package models

import (
	"errors"
	"strings"
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusApproved  AppointmentStatus = "APPROVED"
	AppointmentStatusRejected  AppointmentStatus = "REJECTED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// ParseAppointmentDecision accepts only the doctor-facing decisions.
func ParseAppointmentDecision(s string) (AppointmentStatus, error) {
	switch strings.ToUpper(s) {
	case string(AppointmentStatusApproved):
		return AppointmentStatusApproved, nil
	case string(AppointmentStatusRejected):
		return AppointmentStatusRejected, nil
	default:
		return "", errors.New("invalid appointment decision")
	}
}

type Appointment struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	PatientID   uint              `gorm:"index;not null" json:"patient_id"`
	Patient     User              `gorm:"foreignKey:PatientID" json:"patient"`
	DoctorID    uint              `gorm:"index;not null" json:"doctor_id"`
	Doctor      User              `gorm:"foreignKey:DoctorID" json:"doctor"`
	ScheduledAt time.Time         `gorm:"not null" json:"scheduled_at"`
	Reason      string            `json:"reason"`
	Status      AppointmentStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`
	DoctorNote  string            `json:"doctor_note,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
