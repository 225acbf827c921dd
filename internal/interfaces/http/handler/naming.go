package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/domain/catalog"
	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductGenerator produces a product name and description for a category
type ProductGenerator interface {
	Generate(ctx context.Context, category catalog.Category) (catalog.Product, error)
}

// GenerateProductRequest is the body of POST /generate_product.
// Amount is accepted for compatibility and ignored.
type GenerateProductRequest struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category" binding:"required"`
}

// GenerateProductResponse is the success body of POST /generate_product
type GenerateProductResponse struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NamingHandler serves product generation requests
type NamingHandler struct {
	generator ProductGenerator
}

// NewNamingHandler creates a new NamingHandler
func NewNamingHandler(generator ProductGenerator) *NamingHandler {
	return &NamingHandler{generator: generator}
}

// RegisterRoutes registers the naming routes on rg
func (h *NamingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate_product", h.GenerateProduct)
}

// GenerateProduct handles POST /generate_product.
// Any category string is forwarded to the model; known categories are not enforced.
func (h *NamingHandler) GenerateProduct(c *gin.Context) {
	var req GenerateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: err.Error()})
		return
	}

	product, err := h.generator.Generate(c.Request.Context(), catalog.Category(req.Category))
	if err != nil {
		logger.GetGinLogger(c).Error("generate product",
			zap.String("category", req.Category),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Detail: fmt.Sprintf("Error generating product: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, GenerateProductResponse{
		ProductName: product.Name,
		Description: product.Description,
	})
}
