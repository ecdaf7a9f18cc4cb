package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/logging"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *Producer
	ES       *elasticsearch.Client
}

// ListProducts serves the public catalog as {results, count} with optional
// category filter and search. Search goes through Elasticsearch when one is
// wired, SQL matching otherwise.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list_products")

	offset, limit := pageParams(c)
	search := c.QueryParam("search")
	category := c.QueryParam("category")

	if search != "" && h.ES != nil {
		count, prods, err := searchProducts(ctx, h.ES, search, offset, limit)
		if err == nil {
			out := make([]api.Product, len(prods))
			for i, p := range prods {
				out[i] = productDTO(p)
			}
			return c.JSON(http.StatusOK, api.ProductPage{Results: out, Count: count})
		}
		l.Warn("es_search_failed", "error", err)
		// fall back to SQL below
	}

	q := h.DB.Model(&Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var products []Product
	if err := q.Offset(offset).Limit(limit).Order("id").Find(&products).Error; err != nil {
		l.Error("list_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	out := make([]api.Product, len(products))
	for i, p := range products {
		out[i] = productDTO(p)
	}
	return c.JSON(http.StatusOK, api.ProductPage{Results: out, Count: count})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var p Product
	if err := h.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, productDTO(p))
}

// Admin CRUD under /manage-products/.

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_product")

	var req api.Product
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Price <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name and positive price required")
	}

	p := Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
	}
	if err := h.DB.Create(&p).Error; err != nil {
		l.Error("create_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := indexProduct(ctx, h.ES, &p); err != nil {
		l.Warn("es_index_failed", "product_id", p.ID, "error", err)
	}
	publish(ctx, h.Producer, l, "product_events", fmt.Sprint(p.ID), map[string]any{
		"type":      "product_created",
		"productID": p.ID,
		"name":      p.Name,
	})

	l.Info("product_created", "product_id", p.ID)
	return c.JSON(http.StatusCreated, productDTO(p))
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var p Product
	if err := h.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var req api.Product
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price > 0 {
		p.Price = req.Price
	}
	if req.Image != "" {
		p.Image = req.Image
	}
	if req.Category != "" {
		p.Category = req.Category
	}
	if req.Stock > 0 {
		p.Stock = req.Stock
	}

	if err := h.DB.Save(&p).Error; err != nil {
		l.Error("update_product_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := indexProduct(ctx, h.ES, &p); err != nil {
		l.Warn("es_index_failed", "product_id", p.ID, "error", err)
	}
	publish(ctx, h.Producer, l, "product_events", fmt.Sprint(p.ID), map[string]any{
		"type":      "product_updated",
		"productID": p.ID,
	})

	return c.JSON(http.StatusOK, productDTO(p))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	res := h.DB.Delete(&Product{}, id)
	if res.Error != nil {
		l.Error("delete_product_error", "status", 500, "error", res.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	publish(ctx, h.Producer, l, "product_events", fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	l.Info("product_deleted", "product_id", id)
	return c.NoContent(http.StatusNoContent)
}
