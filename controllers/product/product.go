package productControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayurmart/ayurmart-api/middleware"
	"github.com/ayurmart/ayurmart-api/models"
	"github.com/ayurmart/ayurmart-api/uploads"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateProduct creates a new product with categories + image upload.
// Multipart form: name, price, stock, description, category_ids, image.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		if name == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}

		stock := 0
		if stockStr := c.PostForm("stock"); stockStr != "" {
			stock, err = strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
		}

		categories, badInput, err := resolveCategories(db, c.PostForm("category_ids"))
		if badInput {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}

		var imageURL string
		if fh, err := c.FormFile("image"); err == nil {
			imageURL, err = uploads.Save(fh, "products", uploads.MaxImageSize, uploads.ImageMimeTypes)
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, uploads.ErrTooLarge) || errors.Is(err, uploads.ErrBadMimeType) {
					status = http.StatusBadRequest
				}
				c.JSON(status, gin.H{"error": err.Error()})
				return
			}
		}

		supplierID, _ := middleware.UserID(c)
		product := models.Product{
			Name:        name,
			Description: c.PostForm("description"),
			Price:       price,
			Stock:       stock,
			Image:       imageURL,
			Categories:  categories,
			SupplierID:  supplierID,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

// GetProducts lists products with optional category and search filters.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Categories").Order("created_at desc")

		if search := c.Query("search"); search != "" {
			query = query.Where("name LIKE ?", "%"+search+"%")
		}
		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.
				Joins("JOIN product_categories pc ON pc.product_id = products.id").
				Where("pc.category_id = ?", categoryID)
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Categories").First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// UpdateProduct applies partial stock/price/detail edits. Multipart form so
// the image can be replaced in the same request.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		updates := make(map[string]interface{})
		if name := c.PostForm("name"); name != "" {
			updates["name"] = name
		}
		if desc := c.PostForm("description"); desc != "" {
			updates["description"] = desc
		}
		if priceStr := c.PostForm("price"); priceStr != "" {
			price, err := strconv.ParseFloat(priceStr, 64)
			if err != nil || price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			updates["price"] = price
		}
		if stockStr := c.PostForm("stock"); stockStr != "" {
			stock, err := strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			updates["stock"] = stock
		}

		if fh, err := c.FormFile("image"); err == nil {
			imageURL, err := uploads.Save(fh, "products", uploads.MaxImageSize, uploads.ImageMimeTypes)
			if err != nil {
				status := http.StatusInternalServerError
				if errors.Is(err, uploads.ErrTooLarge) || errors.Is(err, uploads.ErrBadMimeType) {
					status = http.StatusBadRequest
				}
				c.JSON(status, gin.H{"error": err.Error()})
				return
			}
			if product.Image != "" {
				_ = uploads.Remove(product.Image)
			}
			updates["image"] = imageURL
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}

		if idsStr := c.PostForm("category_ids"); idsStr != "" {
			categories, badInput, err := resolveCategories(db, idsStr)
			if badInput {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
				return
			}
			if err := db.Model(&product).Association("Categories").Replace(categories); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update categories"})
				return
			}
		}

		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Product{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}

// resolveCategories parses a comma-separated id list and loads the matching
// rows. badInput reports a malformed list.
func resolveCategories(db *gorm.DB, idsStr string) (categories []models.Category, badInput bool, err error) {
	if idsStr == "" {
		return nil, false, nil
	}
	var parsedIDs []uint
	for _, tok := range strings.Split(idsStr, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id64, parseErr := strconv.ParseUint(tok, 10, 64)
		if parseErr != nil {
			return nil, true, nil
		}
		parsedIDs = append(parsedIDs, uint(id64))
	}
	if len(parsedIDs) == 0 {
		return nil, false, nil
	}
	if err := db.Where("id IN ?", parsedIDs).Find(&categories).Error; err != nil {
		return nil, false, err
	}
	return categories, false, nil
}
