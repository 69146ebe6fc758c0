package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ayurmart/ayurmart-api/middleware"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// -------- Request Structs --------

type CheckoutRequest struct {
	ShippingCost  float64        `json:"shipping_cost" binding:"min=0"`
	Tax           float64        `json:"tax" binding:"min=0"`
	PaymentMethod string         `json:"payment_method" binding:"required"`
	Address       models.Address `json:"address" binding:"required"`
}

type UpdateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// -------- Helpers --------

var (
	errEmptyCart         = errors.New("cart is empty")
	errMissingAddress    = errors.New("address street, city and country are required")
	errOrderNotOwned     = errors.New("order does not belong to this user")
	errOrderFinished     = errors.New("completed orders cannot be cancelled")
	errOrderCancelled    = errors.New("order is already cancelled")
	errStockInsufficient = errors.New("insufficient stock")
)

// generateOrderRef produces a unique, human-sortable order reference.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}

// -------- Core Logic --------

// Checkout snapshots the user's cart into an order. Line totals use the
// CURRENT product price, not the price captured at add time. Order create,
// stock deduction and cart clear run in one transaction.
func Checkout(db *gorm.DB, userID uint, req CheckoutRequest) (*models.Order, error) {
	if req.Address.Street == "" || req.Address.City == "" || req.Address.Country == "" {
		return nil, errMissingAddress
	}

	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, errEmptyCart
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		var orderItems []models.OrderItem

		for _, item := range cart.Items {
			// SQLite has no SELECT ... FOR UPDATE; its writes are serialized
			// anyway.
			q := tx
			if tx.Dialector.Name() == "postgres" {
				q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
			}

			var product models.Product
			if err := q.First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}

			if product.Stock < item.Quantity {
				return errStockInsufficient
			}

			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			lineTotal := product.Price * float64(item.Quantity)
			subtotal += lineTotal

			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.Image,
				UnitPrice:    product.Price,
				Quantity:     item.Quantity,
				LineTotal:    lineTotal,
			})
		}

		order = models.Order{
			OrderRef:      generateOrderRef(),
			UserID:        userID,
			Items:         orderItems,
			Subtotal:      subtotal,
			Tax:           req.Tax,
			ShippingCost:  req.ShippingCost,
			GrandTotal:    subtotal + req.Tax + req.ShippingCost,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusUnpaid,
			PaymentMethod: req.PaymentMethod,
			Address:       req.Address,
			CreatedAt:     time.Now(),
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clear cart items inside the same transaction, so a failed order
		// never leaves a half-emptied cart.
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder handles a customer-initiated cancel. Completed orders are
// final. A paid order is marked refunded; no gateway call is made, the
// actual transfer back is an offline process.
func CancelOrder(db *gorm.DB, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, errOrderNotOwned
	}
	if order.Status == models.OrderStatusCompleted {
		return nil, errOrderFinished
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, errOrderCancelled
	}

	updates := map[string]interface{}{"status": models.OrderStatusCancelled}
	if order.PaymentStatus == models.PaymentStatusPaid {
		updates["payment_status"] = models.PaymentStatusRefunded
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// POST /api/orders/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Checkout(db, userID, req)
		if err != nil {
			switch {
			case errors.Is(err, errEmptyCart), errors.Is(err, errMissingAddress), errors.Is(err, errStockInsufficient):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			}
			return
		}

		broadcastOrderEvent("order_created", order)
		c.JSON(http.StatusCreated, order)
	}
}

// GET /api/orders — the caller's own orders.
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		query := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PATCH /api/admin/orders/:id — admin status/payment-status transition.
// Validity is a membership test against the fixed enums.
func UpdateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if req.Status == "" && req.PaymentStatus == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status or payment_status is required"})
			return
		}

		updates := make(map[string]interface{})
		if req.Status != "" {
			status, err := models.ParseOrderStatus(req.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates["status"] = status
		}
		if req.PaymentStatus != "" {
			paymentStatus, err := models.ParsePaymentStatus(req.PaymentStatus)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates["payment_status"] = paymentStatus
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.Model(&order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}

		broadcastOrderEvent("order_updated", &order)
		c.JSON(http.StatusOK, order)
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		cancelled, err := CancelOrder(db, userID, order.ID)
		if err != nil {
			switch {
			case errors.Is(err, errOrderNotOwned):
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			case errors.Is(err, errOrderFinished), errors.Is(err, errOrderCancelled):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			}
			return
		}

		broadcastOrderEvent("order_updated", cancelled)
		c.JSON(http.StatusOK, cancelled)
	}
}
