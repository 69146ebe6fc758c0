package authControllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ayurmart/ayurmart-api/mailer"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=USER DOCTOR SUPPLIER"`

	// Role-specific fields
	LicenseNo      string `json:"license_no"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// IssueToken signs a JWT carrying the user id and role.
func IssueToken(userID uint, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// POST /api/auth/signup
func Signup(db *gorm.DB, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		role := models.RoleUser
		if req.Role != "" {
			role = models.Role(req.Role)
		}
		if role == models.RoleDoctor && req.LicenseNo == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "license_no is required for doctor accounts"})
			return
		}
		if role == models.RoleSupplier && req.CompanyName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "company_name is required for supplier accounts"})
			return
		}

		var existing models.User
		err := db.Where("email = ? OR mobile = ?", req.Email, req.Mobile).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email or mobile already registered"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Name:           req.Name,
			Email:          req.Email,
			Mobile:         req.Mobile,
			PasswordHash:   string(hash),
			Role:           role,
			VerifyToken:    uuid.NewString(),
			IsApproved:     role == models.RoleUser, // doctors/suppliers wait for an admin
			LicenseNo:      req.LicenseNo,
			CompanyName:    req.CompanyName,
			CompanyAddress: req.CompanyAddress,
			Cart:           models.Cart{},
		}

		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		verifyURL := fmt.Sprintf("%s/api/auth/verify?token=%s", os.Getenv("PUBLIC_URL"), user.VerifyToken)
		mailer.SendAsync(m, user.Email, "Verify your AyurMart account",
			fmt.Sprintf("Hello %s,<br><br>Please verify your account by visiting <a href=%q>this link</a>.", user.Name, verifyURL))

		c.JSON(http.StatusCreated, gin.H{
			"message": "Signup successful, please verify your email",
			"user":    user,
		})
	}
}

// GET /api/auth/verify?token=...
func VerifyEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
			return
		}

		var user models.User
		if err := db.Where("verify_token = ?", token).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid verification token"})
			return
		}

		if err := db.Model(&user).Updates(map[string]interface{}{
			"is_verified":  true,
			"verify_token": "",
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify account"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
	}
}

// POST /api/auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		if !user.IsVerified {
			c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified"})
			return
		}
		if !user.IsApproved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account pending admin approval"})
			return
		}

		token, err := IssueToken(user.ID, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"user":    user,
		})
	}
}
