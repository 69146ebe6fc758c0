package productControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authControllers "github.com/ayurmart/ayurmart-api/controllers/auth"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/ayurmart/ayurmart-api/routes"
)

type stubMailer struct{}

func (stubMailer) Send(to, subject, body string) error { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("UPLOAD_DIR", t.TempDir())

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Category{},
		&models.Cart{}, &models.CartItem{},
	))

	r := gin.New()
	routes.SetupRoutes(r, db, stubMailer{})
	return r, db
}

func newSupplier(t *testing.T, db *gorm.DB) (models.User, string) {
	t.Helper()
	user := models.User{
		Name: "Herb Supplies Ltd", Email: "supplier@example.com", Mobile: "0770000001",
		PasswordHash: "x", Role: models.RoleSupplier, CompanyName: "Herb Supplies Ltd",
		IsVerified: true, IsApproved: true,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := authControllers.IssueToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, "Bearer " + token
}

func doForm(t *testing.T, r *gin.Engine, method, path, auth string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProductCRUD(t *testing.T) {
	r, db := newTestRouter(t)
	supplier, auth := newSupplier(t, db)

	category := models.Category{Name: "Oils"}
	require.NoError(t, db.Create(&category).Error)

	w := doForm(t, r, http.MethodPost, "/api/products", auth, map[string]string{
		"name":         "Sesame Oil",
		"price":        "350",
		"stock":        "20",
		"description":  "Cold pressed",
		"category_ids": fmt.Sprintf("%d", category.ID),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, supplier.ID, created.SupplierID)
	require.Len(t, created.Categories, 1)

	// Public listing filtered by category.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products?category_id=%d", category.ID), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	// Partial update.
	w = doForm(t, r, http.MethodPatch, fmt.Sprintf("/api/products/%d", created.ID), auth, map[string]string{
		"price": "399",
		"stock": "15",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Product
	require.NoError(t, db.First(&stored, created.ID).Error)
	require.Equal(t, 399.0, stored.Price)
	require.Equal(t, 15, stored.Stock)
	require.Equal(t, "Sesame Oil", stored.Name)

	// Delete, then the public detail endpoint 404s.
	w = doForm(t, r, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductValidation(t *testing.T) {
	r, db := newTestRouter(t)
	_, auth := newSupplier(t, db)

	w := doForm(t, r, http.MethodPost, "/api/products", auth, map[string]string{"name": "No Price"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doForm(t, r, http.MethodPost, "/api/products", auth, map[string]string{
		"name": "Bad Price", "price": "-10",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doForm(t, r, http.MethodPost, "/api/products", auth, map[string]string{
		"name": "Bad Categories", "price": "10", "category_ids": "1,abc",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductWriteRequiresSupplierOrAdmin(t *testing.T) {
	r, db := newTestRouter(t)

	customer := models.User{
		Name: "Customer", Email: "customer@example.com", Mobile: "0770000002",
		PasswordHash: "x", Role: models.RoleUser, IsVerified: true, IsApproved: true,
	}
	require.NoError(t, db.Create(&customer).Error)
	token, err := authControllers.IssueToken(customer.ID, customer.Role)
	require.NoError(t, err)

	w := doForm(t, r, http.MethodPost, "/api/products", "Bearer "+token,
		map[string]string{"name": "Nope", "price": "10"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProductSearch(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.Product{Name: "Ashwagandha Powder", Price: 450, Stock: 10}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Triphala Tablets", Price: 300, Stock: 10}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/products?search=Ashwa", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.Equal(t, "Ashwagandha Powder", listed[0].Name)
}
