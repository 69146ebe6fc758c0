package orderControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authControllers "github.com/ayurmart/ayurmart-api/controllers/auth"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/ayurmart/ayurmart-api/routes"
)

type stubMailer struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubMailer) Send(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+"|"+subject)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Category{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Receipt{}, &models.Appointment{},
		&models.Ticket{}, &models.Inquiry{}, &models.Feedback{},
	))

	r := gin.New()
	routes.SetupRoutes(r, db, &stubMailer{})
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, role models.Role, email, mobile string) models.User {
	t.Helper()
	user := models.User{
		Name:         "Test " + string(role),
		Email:        email,
		Mobile:       mobile,
		PasswordHash: "x",
		Role:         role,
		IsVerified:   true,
		IsApproved:   true,
		Cart:         models.Cart{},
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func authHeader(t *testing.T, userID uint, role models.Role) string {
	t.Helper()
	token, err := authControllers.IssueToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
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

func addCartItem(t *testing.T, db *gorm.DB, user models.User, product models.Product, qty int) {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID:      cart.CartID,
		ProductID:   product.ID,
		ProductName: product.Name,
		PriceAtAdd:  product.Price,
		Quantity:    qty,
	}).Error)
}

func checkoutBody(shipping, tax float64) map[string]any {
	return map[string]any{
		"shipping_cost":  shipping,
		"tax":            tax,
		"payment_method": "bank_transfer",
		"address": map[string]string{
			"street": "12 Temple Rd", "city": "Colombo", "country": "LK",
		},
	}
}

func TestCheckoutComputesTotalsFromCurrentPrices(t *testing.T) {
	r, db := newTestRouter(t)
	user := createUser(t, db, models.RoleUser, "buyer@example.com", "0711111111")

	productA := models.Product{Name: "Ashwagandha", Price: 450, Stock: 10}
	productB := models.Product{Name: "Triphala", Price: 300, Stock: 5}
	require.NoError(t, db.Create(&productA).Error)
	require.NoError(t, db.Create(&productB).Error)

	addCartItem(t, db, user, productA, 2)
	addCartItem(t, db, user, productB, 1)

	// Price changed after the items were added; checkout must use the
	// current price, not the snapshot.
	require.NoError(t, db.Model(&productA).Update("price", 500).Error)

	w := doJSON(t, r, http.MethodPost, "/api/orders/checkout",
		authHeader(t, user.ID, user.Role), checkoutBody(100, 50))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.Preload("Items").Where("user_id = ?", user.ID).First(&order).Error)
	require.Equal(t, 1300.0, order.Subtotal)
	require.Equal(t, 100.0, order.ShippingCost)
	require.Equal(t, 50.0, order.Tax)
	require.Equal(t, 1450.0, order.GrandTotal)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	require.Len(t, order.Items, 2)
	require.NotEmpty(t, order.OrderRef)

	// Stock was deducted.
	var stocked models.Product
	require.NoError(t, db.First(&stocked, productA.ID).Error)
	require.Equal(t, 8, stocked.Stock)

	// Cart was cleared in the same transaction.
	var remaining int64
	db.Model(&models.CartItem{}).Count(&remaining)
	require.Zero(t, remaining)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	r, db := newTestRouter(t)
	user := createUser(t, db, models.RoleUser, "empty@example.com", "0712222222")

	w := doJSON(t, r, http.MethodPost, "/api/orders/checkout",
		authHeader(t, user.ID, user.Role), checkoutBody(0, 0))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.Zero(t, count)
}

func TestCheckoutMissingAddressRejected(t *testing.T) {
	r, db := newTestRouter(t)
	user := createUser(t, db, models.RoleUser, "noaddr@example.com", "0713333333")

	product := models.Product{Name: "Brahmi", Price: 200, Stock: 3}
	require.NoError(t, db.Create(&product).Error)
	addCartItem(t, db, user, product, 1)

	body := checkoutBody(0, 0)
	body["address"] = map[string]string{"street": "12 Temple Rd"}
	w := doJSON(t, r, http.MethodPost, "/api/orders/checkout",
		authHeader(t, user.ID, user.Role), body)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutInsufficientStockRejected(t *testing.T) {
	r, db := newTestRouter(t)
	user := createUser(t, db, models.RoleUser, "greedy@example.com", "0714444444")

	product := models.Product{Name: "Neem", Price: 150, Stock: 1}
	require.NoError(t, db.Create(&product).Error)
	addCartItem(t, db, user, product, 5)

	w := doJSON(t, r, http.MethodPost, "/api/orders/checkout",
		authHeader(t, user.ID, user.Role), checkoutBody(0, 0))
	require.Equal(t, http.StatusBadRequest, w.Code)

	// No order, stock untouched, cart intact.
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	require.Zero(t, orders)
	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	require.Equal(t, 1, fresh.Stock)
	var items int64
	db.Model(&models.CartItem{}).Count(&items)
	require.EqualValues(t, 1, items)
}

func placeOrder(t *testing.T, r *gin.Engine, db *gorm.DB, user models.User) models.Order {
	t.Helper()
	product := models.Product{Name: "Chyawanprash", Price: 900, Stock: 10}
	require.NoError(t, db.Create(&product).Error)
	addCartItem(t, db, user, product, 1)

	w := doJSON(t, r, http.MethodPost, "/api/orders/checkout",
		authHeader(t, user.ID, user.Role), checkoutBody(0, 0))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("id DESC").First(&order).Error)
	return order
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	r, db := newTestRouter(t)
	user := createUser(t, db, models.RoleUser, "buyer2@example.com", "0715555555")
	admin := createUser(t, db, models.RoleAdmin, "admin@example.com", "0716666666")
	order := placeOrder(t, r, db, user)

	adminAuth := authHeader(t, admin.ID, admin.Role)

	// Unknown status value is rejected by the membership check.
	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d", order.ID),
		adminAuth, map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d", order.ID),
		adminAuth, map[string]string{"status": "processing", "payment_status": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Order
	require.NoError(t, db.First(&updated, order.ID).Error)
	require.Equal(t, models.OrderStatusProcessing, updated.Status)
	require.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	// Non-admins cannot reach the admin endpoint.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d", order.ID),
		authHeader(t, user.ID, user.Role), map[string]string{"status": "completed"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCancelPaidOrderMarksRefunded(t *testing.T) {
	r, db := newTestRouter(t)
	user := createUser(t, db, models.RoleUser, "payer@example.com", "0717777777")
	order := placeOrder(t, r, db, user)

	require.NoError(t, db.Model(&order).Update("payment_status", models.PaymentStatusPaid).Error)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", order.ID),
		authHeader(t, user.ID, user.Role), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cancelled models.Order
	require.NoError(t, db.First(&cancelled, order.ID).Error)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	require.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)
}

func TestCancelCompletedOrderRejected(t *testing.T) {
	r, db := newTestRouter(t)
	user := createUser(t, db, models.RoleUser, "done@example.com", "0718888888")
	order := placeOrder(t, r, db, user)

	require.NoError(t, db.Model(&order).Update("status", models.OrderStatusCompleted).Error)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", order.ID),
		authHeader(t, user.ID, user.Role), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelForeignOrderForbidden(t *testing.T) {
	r, db := newTestRouter(t)
	owner := createUser(t, db, models.RoleUser, "owner@example.com", "0719999999")
	other := createUser(t, db, models.RoleUser, "other@example.com", "0710000000")
	order := placeOrder(t, r, db, owner)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/orders/%d/cancel", order.ID),
		authHeader(t, other.ID, other.Role), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}
