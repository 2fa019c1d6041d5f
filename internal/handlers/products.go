package handlers

import (
	"errors"
	"net/http"

	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/models"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/service"
	"github.com/gin-gonic/gin"
)

// ProductsHandler handles the product CRUD surface.
type ProductsHandler struct {
	productService service.ProductService
}

// NewProductsHandler creates a new ProductsHandler instance.
func NewProductsHandler(productService service.ProductService) *ProductsHandler {
	return &ProductsHandler{productService: productService}
}

// ProductRequest represents the product create/update payload.
type ProductRequest struct {
	Name  string  `json:"productname"`
	Type  string  `json:"type"`
	CC    int64   `json:"cc"`
	Price float64 `json:"price"`
}

// Create godoc
// @Summary Register a new product
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ProductRequest true "Product data"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]string
// @Router /products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	product := &models.Product{
		Name:  req.Name,
		Type:  req.Type,
		CC:    req.CC,
		Price: req.Price,
	}
	if err := h.productService.Create(c.Request.Context(), product); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			RespondError(c, http.StatusBadRequest, "invalid input")
			return
		}
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// List godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context())
	if err != nil {
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// Update godoc
// @Summary Update a product by id
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product id"
// @Param request body ProductRequest true "Fields to update"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	patch := &models.Product{
		Name:  req.Name,
		Type:  req.Type,
		CC:    req.CC,
		Price: req.Price,
	}
	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			RespondError(c, http.StatusNotFound, "product not found")
			return
		}
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete a product by id
// @Tags products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	product, err := h.productService.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			RespondError(c, http.StatusNotFound, "product not found")
			return
		}
		LogAndRespondError(c, http.StatusInternalServerError, err, "failed to delete product")
		return
	}

	c.JSON(http.StatusOK, product)
}
