package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ViacheslavGIT/MegaMart/internal/auth"
	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/shop"
)

// UserHandler serves the endpoints that act on the bearer's own data.
// Every route sits behind the token middleware.
type UserHandler struct {
	favorites *shop.Favorites
	orders    *shop.Orders
}

func NewUserHandler(favorites *shop.Favorites, orders *shop.Orders) *UserHandler {
	return &UserHandler{favorites: favorites, orders: orders}
}

func userID(c *gin.Context) string {
	id, _ := auth.FromContext(c)
	return id.ID
}

func (h *UserHandler) Favorites(c *gin.Context) {
	list, err := h.favorites.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "Error loading favorites")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *UserHandler) ToggleFavorite(c *gin.Context) {
	list, err := h.favorites.Toggle(c.Request.Context(), userID(c), c.Param("productId"))
	if err != nil {
		respondError(c, err, "Error updating favorites")
		return
	}
	c.JSON(http.StatusOK, list)
}

type lineItemInput struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" binding:"gte=0"`
	Quantity int     `json:"quantity" binding:"gte=1"`
}

type checkoutInput struct {
	User     models.Address  `json:"user"`
	Products []lineItemInput `json:"products" binding:"required,min=1,dive"`
	Total    float64         `json:"total" binding:"gte=0"`
}

func (h *UserHandler) Checkout(c *gin.Context) {
	var in checkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	items := make([]models.LineItem, len(in.Products))
	for i, p := range in.Products {
		items[i] = models.LineItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: p.Quantity}
	}
	order, err := h.orders.Checkout(c.Request.Context(), userID(c), shop.CheckoutInput{
		Address: in.User,
		Items:   items,
		Total:   in.Total,
	})
	if err != nil {
		respondError(c, err, "Error creating order")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *UserHandler) Orders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err, "Error loading orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *UserHandler) Order(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "Error loading order")
		return
	}
	c.JSON(http.StatusOK, order)
}
