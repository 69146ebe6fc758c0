package models

import "time"

type Role string

const (
	RoleUser     Role = "USER"
	RoleDoctor   Role = "DOCTOR"
	RoleSupplier Role = "SUPPLIER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"unique;not null" json:"email"`
	Mobile       string `gorm:"unique" json:"mobile"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:VARCHAR(20);default:'USER'" json:"role"`

	// Set after the verification link in the signup email is followed.
	IsVerified  bool   `gorm:"default:false" json:"is_verified"`
	VerifyToken string `gorm:"index" json:"-"`

	// DOCTOR and SUPPLIER accounts stay locked until an admin approves them.
	IsApproved bool `gorm:"default:false" json:"is_approved"`

	// Role-specific fields
	LicenseNo      string `json:"license_no,omitempty"`      // DOCTOR
	CompanyName    string `json:"company_name,omitempty"`    // SUPPLIER
	CompanyAddress string `json:"company_address,omitempty"` // SUPPLIER

	Address   Address   `gorm:"embedded" json:"address"`
	Cart      Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Address is embedded in User and snapshotted onto orders at checkout.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
