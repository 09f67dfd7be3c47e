package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"github.com/ridloal/supermarket-management/internal/product/service"
)

type ProductHandler struct {
	importer *service.Importer
}

func NewProductHandler(im *service.Importer) *ProductHandler {
	return &ProductHandler{importer: im}
}

// RegisterRoutes mounts the admin-only product routes; guards run before the handlers.
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, guards ...gin.HandlerFunc) {
	productRoutes := router.Group("/products", guards...)
	{
		productRoutes.POST("/import", h.ImportProducts)
	}
}

func (h *ProductHandler) ImportProducts(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		logger.Error("ImportProducts: failed to open upload", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to open file"})
		return
	}
	defer f.Close()

	res, err := h.importer.Import(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSpreadsheet) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid Excel file"})
			return
		}
		logger.Error("ImportProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to import products"})
		return
	}

	logger.Info("Imported %d products, skipped %d rows", len(res.Created), len(res.SkippedRows))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"created":     len(res.Created),
			"products":    res.Created,
			"skippedRows": res.SkippedRows,
		},
		"message": "Products imported successfully",
	})
}
