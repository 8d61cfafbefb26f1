package handlers

import (
	"net/http"

	"bakery-pos-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListProducts returns the catalog (public — the counter UI reads this)
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var products []models.Product
	query := h.db.Preload("Category")

	if category := c.Query("category_id"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if active := c.Query("active"); active == "true" {
		query = query.Where("active = ?", true)
	}

	query.Find(&products)
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// GetProduct returns a single product
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var product models.Product
	if err := h.db.Preload("Category").First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

type ProductRequest struct {
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	CategoryID     *uint           `json:"category_id"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	AvailableStock int             `json:"available_stock" binding:"min=0"`
	Active         *bool           `json:"active"`
}

// CreateProduct adds a product to the catalog — admin only
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UnitPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_price must not be negative"})
		return
	}

	product := models.Product{
		Name:           req.Name,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		UnitPrice:      req.UnitPrice,
		AvailableStock: req.AvailableStock,
		Active:         true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// UpdateProduct edits a product. Price changes never touch existing orders:
// lines keep their snapshot price.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := h.db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UnitPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_price must not be negative"})
		return
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"category_id": req.CategoryID,
		"unit_price":  req.UnitPrice,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	h.db.Model(&product).Updates(updates)

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// DeactivateProduct removes a product from sale without breaking existing
// order lines that reference it.
func (h *CatalogHandler) DeactivateProduct(c *gin.Context) {
	var product models.Product
	if err := h.db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	h.db.Model(&product).Update("active", false)
	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated", "product_id": product.ID})
}

type AdjustStockRequest struct {
	Delta int    `json:"delta" binding:"required"`
	Note  string `json:"note"`
}

// AdjustStock is the only stock mutation outside payment settlement: a manual
// admin correction (restock, spoilage). A negative delta is guarded so stock
// never goes below zero.
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	var product models.Product
	if err := h.db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := h.db.Model(&models.Product{}).
		Where("id = ? AND available_stock + ? >= 0", product.ID, req.Delta).
		Update("available_stock", gorm.Expr("available_stock + ?", req.Delta))
	if res.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Adjustment would make stock negative",
			"available": product.AvailableStock,
		})
		return
	}

	h.db.First(&product, product.ID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjusted",
		"product": product,
	})
}

// ListCategories returns all categories (public)
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	h.db.Find(&categories)
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory adds a category — admin only
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := models.Category{Name: req.Name}
	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

// UpdateCategory renames a category — admin only
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := h.db.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.db.Model(&category).Update("name", req.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": category})
}

// DeleteCategory removes a category; products keep a null category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := h.db.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	h.db.Model(&models.Product{}).Where("category_id = ?", category.ID).Update("category_id", nil)
	h.db.Delete(&category)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted", "category_id": category.ID})
}
