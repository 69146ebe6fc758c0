package models

import (
	"errors"
	"strings"
	"time"
)

type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "PENDING"
	ReceiptStatusApproved ReceiptStatus = "APPROVED"
	ReceiptStatusRejected ReceiptStatus = "REJECTED"
)

// ParseReceiptDecision accepts only the two terminal review states.
func ParseReceiptDecision(s string) (ReceiptStatus, error) {
	switch strings.ToUpper(s) {
	case string(ReceiptStatusApproved):
		return ReceiptStatusApproved, nil
	case string(ReceiptStatusRejected):
		return ReceiptStatusRejected, nil
	default:
		return "", errors.New("invalid receipt decision")
	}
}

// Receipt is an uploaded bank-transfer proof awaiting admin review.
type Receipt struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"index;not null" json:"user_id"`
	OrderID       *uint         `gorm:"index" json:"order_id,omitempty"`
	AppointmentID *uint         `gorm:"index" json:"appointment_id,omitempty"`
	Bank          string        `gorm:"not null" json:"bank"`
	Amount        float64       `gorm:"not null" json:"amount"`
	PaymentMethod string        `json:"payment_method"`
	FileName      string        `gorm:"not null" json:"file_name"`
	FileURL       string        `gorm:"not null" json:"file_url"`
	FileSize      int64         `json:"file_size"`
	Status        ReceiptStatus `gorm:"type:VARCHAR(20);default:'PENDING'" json:"status"`

	// Review fields, set when an admin decides.
	ReviewedBy    *uint      `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewComment string     `json:"review_comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
