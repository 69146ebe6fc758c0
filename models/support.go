package models

import (
	"errors"
	"strings"
	"time"
)

type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

func ParseTicketStatus(s string) (TicketStatus, error) {
	switch strings.ToLower(s) {
	case string(TicketStatusNew):
		return TicketStatusNew, nil
	case string(TicketStatusInProgress):
		return TicketStatusInProgress, nil
	case string(TicketStatusResolved):
		return TicketStatusResolved, nil
	default:
		return "", errors.New("invalid ticket status")
	}
}

type Ticket struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	UserID     uint         `gorm:"index;not null" json:"user_id"`
	User       User         `gorm:"foreignKey:UserID" json:"user"`
	Subject    string       `gorm:"not null" json:"subject"`
	Message    string       `gorm:"not null" json:"message"`
	Attachment string       `json:"attachment,omitempty"`
	Status     TicketStatus `gorm:"type:VARCHAR(20);default:'new'" json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type InquiryStatus string

const (
	InquiryStatusOpen     InquiryStatus = "open"
	InquiryStatusAnswered InquiryStatus = "answered"
)

// Inquiry is a public contact-form submission; no account required.
type Inquiry struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"not null" json:"name"`
	Email     string        `gorm:"not null" json:"email"`
	Subject   string        `json:"subject"`
	Message   string        `gorm:"not null" json:"message"`
	Status    InquiryStatus `gorm:"type:VARCHAR(20);default:'open'" json:"status"`
	Reply     string        `json:"reply,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type Feedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	Approved  bool      `gorm:"default:false" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
