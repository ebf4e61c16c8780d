package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/shop"
)

type ProductHandler struct {
	catalog *shop.Catalog
}

func NewProductHandler(catalog *shop.Catalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// pagination reads page and limit; unparsable values fall back to the
// catalog defaults.
func pagination(c *gin.Context) (int64, int64) {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	return shop.NormalizePage(page, limit)
}

func (h *ProductHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	result, err := h.catalog.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err, "Error loading products")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) Filter(c *gin.Context) {
	page, limit := pagination(c)
	f := models.ProductFilter{Category: c.Query("category"), Brand: c.Query("brand")}
	result, err := h.catalog.Filter(c.Request.Context(), f, page, limit)
	if err != nil {
		respondError(c, err, "Error filtering products")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Random writes a product or JSON null for an empty catalog.
func (h *ProductHandler) Random(c *gin.Context) {
	p, err := h.catalog.Random(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error fetching random product")
		return
	}
	if p == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Facets(c *gin.Context) {
	f, err := h.catalog.Facets(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error loading facets")
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Error loading product")
		return
	}
	c.JSON(http.StatusOK, p)
}

type productInput struct {
	Name        string  `json:"name" binding:"required"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"gte=0"`
	Off         float64 `json:"off" binding:"gte=0,lte=100"`
	Img         string  `json:"img"`
	Description string  `json:"description"`
}

func (in productInput) product() *models.Product {
	return &models.Product{
		Name:        in.Name,
		Brand:       in.Brand,
		Category:    in.Category,
		Price:       in.Price,
		Off:         in.Off,
		Img:         in.Img,
		Description: in.Description,
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p := in.product()
	if err := h.catalog.Create(c.Request.Context(), p); err != nil {
		respondError(c, err, "Error creating product")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p := in.product()
	if err := h.catalog.Update(c.Request.Context(), c.Param("id"), p); err != nil {
		respondError(c, err, "Error updating product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Error deleting product")
		return
	}
	c.Status(http.StatusNoContent)
}
